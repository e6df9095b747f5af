package ledger_test

import (
	"context"
	"sync"
	"time"

	"github.com/oscarvc/kardex-api/internal/application/ledger"
	"github.com/oscarvc/kardex-api/internal/domain"
	"github.com/oscarvc/kardex-api/internal/domain/entity"
	"github.com/oscarvc/kardex-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria del almacenamiento, con la misma semántica transaccional
// que el adaptador PostgreSQL: el fakeTxRunner serializa transacciones y
// restaura un snapshot completo si el callback falla (rollback). Así los tests
// ejercen atomicidad y concurrencia sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	branches  map[string]*entity.Branch
	contacts  map[string]*entity.Contact
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	sequences map[string]int64 // branchID + "/" + kind
	documents map[string]*entity.Document
	lines     []*entity.DocumentLine
}

func newMemStore() *memStore {
	return &memStore{
		branches:  make(map[string]*entity.Branch),
		contacts:  make(map[string]*entity.Contact),
		products:  make(map[string]*entity.Product),
		sequences: make(map[string]int64),
		documents: make(map[string]*entity.Document),
	}
}

type storeSnapshot struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	sequences map[string]int64
	documents map[string]*entity.Document
	lines     []*entity.DocumentLine
}

func (s *memStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		products:  make(map[string]*entity.Product, len(s.products)),
		movements: append([]*entity.StockMovement(nil), s.movements...),
		sequences: make(map[string]int64, len(s.sequences)),
		documents: make(map[string]*entity.Document, len(s.documents)),
		lines:     append([]*entity.DocumentLine(nil), s.lines...),
	}
	for id, p := range s.products {
		cp := *p
		snap.products[id] = &cp
	}
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	for id, d := range s.documents {
		cp := *d
		snap.documents[id] = &cp
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.movements = snap.movements
	s.sequences = snap.sequences
	s.documents = snap.documents
	s.lines = snap.lines
}

// fakeTxRunner implementa ledger.TxRunner: serializa transacciones con un
// mutex propio y hace rollback restaurando el snapshot previo.
type fakeTxRunner struct {
	txMu  sync.Mutex
	store *memStore
}

var _ ledger.TxRunner = (*fakeTxRunner)(nil)

func newFakeTxRunner(store *memStore) *fakeTxRunner {
	return &fakeTxRunner{store: store}
}

func (r *fakeTxRunner) RunMovement(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	snap := r.store.snapshot()
	if err := fn(&fakeMovementRepo{s: r.store}, &fakeProductRepo{s: r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunDocument(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	seqRepo repository.BranchSequenceRepository,
	docRepo repository.DocumentRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	snap := r.store.snapshot()
	err := fn(
		&fakeMovementRepo{s: r.store},
		&fakeProductRepo{s: r.store},
		&fakeSequenceRepo{s: r.store},
		&fakeDocumentRepo{s: r.store},
	)
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// ── BranchRepository ──────────────────────────────────────────────────────────

type fakeBranchRepo struct{ s *memStore }

var _ repository.BranchRepository = (*fakeBranchRepo)(nil)

func (r *fakeBranchRepo) Create(b *entity.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *b
	r.s.branches[b.ID] = &cp
	r.s.sequences[b.ID+"/"+entity.SequenceKindSale] = 0
	r.s.sequences[b.ID+"/"+entity.SequenceKindPurchase] = 0
	return nil
}

func (r *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.branches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBranchRepo) Update(b *entity.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *b
	r.s.branches[b.ID] = &cp
	return nil
}

func (r *fakeBranchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Branch
	for _, b := range r.s.branches {
		if b.CompanyID == companyID {
			cp := *b
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeBranchRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.branches, id)
	return nil
}

// ── ContactRepository ─────────────────────────────────────────────────────────

type fakeContactRepo struct{ s *memStore }

var _ repository.ContactRepository = (*fakeContactRepo)(nil)

func (r *fakeContactRepo) Create(c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.contacts[c.ID] = &cp
	return nil
}

func (r *fakeContactRepo) GetByID(id string) (*entity.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.contacts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeContactRepo) Update(c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.contacts[c.ID] = &cp
	return nil
}

func (r *fakeContactRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Contact
	for _, c := range r.s.contacts {
		if c.CompanyID == companyID {
			cp := *c
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeContactRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.contacts, id)
	return nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	cp.CurrentStock = decimal.Zero
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetForUpdate en el fake equivale a GetByID: la exclusión la aporta el mutex
// del fakeTxRunner, que serializa las transacciones completas.
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	cp := *p
	cp.CurrentStock = existing.CurrentStock // el catálogo nunca toca la proyección
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, stock decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.CurrentStock = stock
	p.UpdatedAt = time.Now()
	return nil
}

func (r *fakeProductRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.BranchID == branchID {
			cp := *p
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

// ── StockMovementRepository ───────────────────────────────────────────────────

type fakeMovementRepo struct{ s *memStore }

var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByProduct devuelve los movimientos en orden inverso de inserción (el
// equivalente a (created_at, id) DESC del adaptador real).
func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*entity.StockMovement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		cp := *m
		matched = append(matched, &cp)
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeMovementRepo) ReplayByProduct(productID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeMovementRepo) ListByDocument(documentRef string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.DocumentRef == documentRef {
			cp := *m
			list = append(list, &cp)
		}
	}
	return list, nil
}

// ── BranchSequenceRepository ──────────────────────────────────────────────────

type fakeSequenceRepo struct{ s *memStore }

var _ repository.BranchSequenceRepository = (*fakeSequenceRepo)(nil)

func (r *fakeSequenceRepo) Next(branchID, kind string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.branches[branchID]; !ok {
		return 0, domain.ErrBranchNotFound
	}
	key := branchID + "/" + kind
	r.s.sequences[key]++
	return r.s.sequences[key], nil
}

func (r *fakeSequenceRepo) Current(branchID, kind string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sequences[branchID+"/"+kind], nil
}

// ── DocumentRepository ────────────────────────────────────────────────────────

type fakeDocumentRepo struct{ s *memStore }

var _ repository.DocumentRepository = (*fakeDocumentRepo)(nil)

func (r *fakeDocumentRepo) Create(d *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.documents {
		if existing.BranchID == d.BranchID && existing.Kind == d.Kind && existing.Number == d.Number {
			return domain.ErrDuplicate
		}
	}
	cp := *d
	r.s.documents[d.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) CreateLine(l *entity.DocumentLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *l
	r.s.lines = append(r.s.lines, &cp)
	return nil
}

func (r *fakeDocumentRepo) GetByID(id string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.documents[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) GetLinesByDocumentID(documentID string) ([]*entity.DocumentLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.DocumentLine
	for _, l := range r.s.lines {
		if l.DocumentID == documentID {
			cp := *l
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *fakeDocumentRepo) ListByBranch(branchID, kind string, limit, offset int) ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Document
	for _, d := range r.s.documents {
		if d.BranchID == branchID && (kind == "" || d.Kind == kind) {
			cp := *d
			list = append(list, &cp)
		}
	}
	return list, nil
}

// ── Fallas de concurrencia inyectadas ─────────────────────────────────────────

// contentionProductRepo se comporta como el fake normal salvo en GetForUpdate
// de un producto concreto, donde devuelve el error configurado. Simula lo que
// reporta el adaptador PostgreSQL cuando el lock de fila no se obtiene.
type contentionProductRepo struct {
	repository.ProductRepository

	failID  string
	failErr error
}

func (r *contentionProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	if id == r.failID {
		return nil, r.failErr
	}
	return r.ProductRepository.GetForUpdate(id)
}

// contentionTxRunner envuelve al fakeTxRunner sustituyendo el repositorio de
// productos dentro de la transacción, con el mismo rollback por snapshot.
type contentionTxRunner struct {
	inner   *fakeTxRunner
	failID  string
	failErr error
}

var _ ledger.TxRunner = (*contentionTxRunner)(nil)

func (r *contentionTxRunner) wrap(productRepo repository.ProductRepository) repository.ProductRepository {
	return &contentionProductRepo{ProductRepository: productRepo, failID: r.failID, failErr: r.failErr}
}

func (r *contentionTxRunner) RunMovement(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inner.RunMovement(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		return fn(movRepo, r.wrap(productRepo))
	})
}

func (r *contentionTxRunner) RunDocument(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	seqRepo repository.BranchSequenceRepository,
	docRepo repository.DocumentRepository,
) error) error {
	return r.inner.RunDocument(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		seqRepo repository.BranchSequenceRepository,
		docRepo repository.DocumentRepository,
	) error {
		return fn(movRepo, r.wrap(productRepo), seqRepo, docRepo)
	})
}

// ── Datos semilla ─────────────────────────────────────────────────────────────

const (
	testCompanyA = "company-a"
	testCompanyB = "company-b"
	testUser     = "user-1"
)

// seedBranch crea una sucursal con sus contadores en cero.
func seedBranch(s *memStore, id, companyID string) {
	branchRepo := &fakeBranchRepo{s: s}
	_ = branchRepo.Create(&entity.Branch{
		ID:        id,
		CompanyID: companyID,
		Name:      "Sucursal " + id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
}

// seedProduct crea un producto y, si openingStock > 0, registra su apertura
// directamente en el store (movimiento OPENING + proyección).
func seedProduct(s *memStore, id, companyID, branchID string, price, cost string, openingStock string) {
	now := time.Now()
	s.mu.Lock()
	s.products[id] = &entity.Product{
		ID:           id,
		CompanyID:    companyID,
		BranchID:     branchID,
		SKU:          "SKU-" + id,
		Name:         "Producto " + id,
		Price:        decimal.RequireFromString(price),
		Cost:         decimal.RequireFromString(cost),
		CurrentStock: decimal.Zero,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.mu.Unlock()

	opening := decimal.RequireFromString(openingStock)
	if opening.IsPositive() {
		s.mu.Lock()
		s.movements = append(s.movements, &entity.StockMovement{
			ID:               "opening-" + id,
			ProductID:        id,
			BranchID:         branchID,
			Kind:             entity.MovementKindOpening,
			QuantityDelta:    opening,
			ResultingBalance: opening,
			Description:      "Saldo inicial",
			CreatedAt:        now,
			CreatedBy:        testUser,
		})
		s.products[id].CurrentStock = opening
		s.mu.Unlock()
	}
}

// currentStock lee la proyección actual de un producto.
func currentStock(s *memStore, productID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].CurrentStock
}

// movementCount cuenta los movimientos de un producto en el libro.
func movementCount(s *memStore, productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n
}
