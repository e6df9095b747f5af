package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Coordinator confirma documentos de venta/compra de N líneas como una unidad
// todo-o-nada: numeración + un movimiento de kardex por línea + cabecera y
// líneas del documento, en una sola transacción. Si cualquier línea falla
// (ej: stock insuficiente en la línea 3 de 5) se aborta todo: ni movimientos
// parciales ni consecutivo consumido quedan visibles.
type Coordinator struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
	contactRepo repository.ContactRepository
}

// NewCoordinator construye el coordinador de documentos.
func NewCoordinator(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	contactRepo repository.ContactRepository,
) *Coordinator {
	return &Coordinator{
		txRunner:    txRunner,
		productRepo: productRepo,
		branchRepo:  branchRepo,
		contactRepo: contactRepo,
	}
}

// DocumentLineInput una línea (producto, cantidad) del documento.
// Quantity siempre positiva; el signo del movimiento lo aporta el tipo.
// UnitPrice cero usa el precio (venta) o costo (compra) actual del producto.
type DocumentLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// DocumentInput entrada para confirmar un documento de venta o compra.
type DocumentInput struct {
	BranchID    string
	Kind        string // entity.DocumentKindSale | entity.DocumentKindPurchase
	ContactID   string // cliente o proveedor; opcional
	Description string
	Lines       []DocumentLineInput
}

// DocumentResult documento confirmado con sus movimientos de kardex.
type DocumentResult struct {
	Document  *entity.Document
	Lines     []*entity.DocumentLine
	Movements []*entity.StockMovement
}

// CommitDocument valida, abre una transacción y aplica: consecutivo de la
// sucursal, un movimiento por línea (bloqueando filas de producto en orden
// ascendente de ID para un orden global de bloqueo que evita deadlocks entre
// documentos concurrentes) y la persistencia de cabecera y líneas.
func (uc *Coordinator) CommitDocument(ctx context.Context, companyID, userID string, in DocumentInput) (*DocumentResult, error) {
	if in.Kind != entity.DocumentKindSale && in.Kind != entity.DocumentKindPurchase {
		return nil, domain.ErrInvalidInput
	}
	if in.BranchID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	branch, err := uc.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrBranchNotFound
	}
	if branch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	if in.ContactID != "" {
		contact, err := uc.contactRepo.GetByID(in.ContactID)
		if err != nil {
			return nil, err
		}
		if contact == nil {
			return nil, domain.ErrNotFound
		}
		if contact.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}

	// Validar productos y completar precios (fuera de la tx, solo lectura).
	// La existencia y el saldo se revalidan bajo el bloqueo de fila dentro de la tx.
	productsByID := make(map[string]*entity.Product)
	for i := range in.Lines {
		line := &in.Lines[i]
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.BranchID != in.BranchID {
			return nil, domain.ErrProductNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		productsByID[line.ProductID] = product
		if line.UnitPrice.IsZero() {
			if in.Kind == entity.DocumentKindSale {
				line.UnitPrice = product.Price
			} else {
				line.UnitPrice = product.Cost
			}
		}
	}

	// Orden de aplicación por ID de producto ascendente: orden global de
	// adquisición de bloqueos, independiente del orden de las líneas.
	// sort estable: líneas repetidas del mismo producto conservan su orden.
	order := make([]int, len(in.Lines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return in.Lines[order[a]].ProductID < in.Lines[order[b]].ProductID
	})

	now := time.Now()
	docID := uuid.New().String()
	movementKind := entity.MovementKindForDocument(in.Kind)
	result := &DocumentResult{Movements: make([]*entity.StockMovement, len(in.Lines))}

	err = uc.txRunner.RunDocument(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		seqRepo repository.BranchSequenceRepository,
		docRepo repository.DocumentRepository,
	) error {
		// 1) Consecutivo de la sucursal, dentro de la misma tx que los
		// movimientos que numera: el incremento no es observable hasta el commit.
		number, err := NextNumberInTx(seqRepo, in.BranchID, in.Kind)
		if err != nil {
			return err
		}

		// 2) Un movimiento por línea, en orden ascendente de producto.
		description := in.Description
		if description == "" {
			if in.Kind == entity.DocumentKindSale {
				description = fmt.Sprintf("Venta N° %d", number)
			} else {
				description = fmt.Sprintf("Compra N° %d", number)
			}
		}
		for _, idx := range order {
			line := in.Lines[idx]
			delta := line.Quantity
			if in.Kind == entity.DocumentKindSale {
				delta = delta.Neg()
			}
			mov, err := RecordInTx(movRepo, productRepo, MovementInput{
				ProductID:     line.ProductID,
				BranchID:      in.BranchID,
				Kind:          movementKind,
				QuantityDelta: delta,
				Description:   description,
				DocumentRef:   docID,
				UserID:        userID,
			}, now)
			if err != nil {
				// La línea ofensora se reporta con su índice original, no el
				// de aplicación.
				var insufficient *domain.InsufficientStockError
				if errors.As(err, &insufficient) {
					insufficient.LineIndex = idx
				}
				return err
			}
			result.Movements[idx] = mov
		}

		// 3) Cabecera y líneas del documento (las líneas en su orden original).
		var total decimal.Decimal
		for _, line := range in.Lines {
			total = total.Add(line.Quantity.Mul(line.UnitPrice))
		}
		doc := &entity.Document{
			ID:          docID,
			CompanyID:   companyID,
			BranchID:    in.BranchID,
			Kind:        in.Kind,
			Number:      number,
			ContactID:   in.ContactID,
			Description: description,
			Total:       total,
			CreatedAt:   now,
			CreatedBy:   userID,
		}
		if err := docRepo.Create(doc); err != nil {
			return err
		}
		for _, line := range in.Lines {
			dl := &entity.DocumentLine{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				Subtotal:   line.Quantity.Mul(line.UnitPrice),
			}
			if err := docRepo.CreateLine(dl); err != nil {
				return err
			}
			result.Lines = append(result.Lines, dl)
		}
		result.Document = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
