package repository

import "github.com/oscarvc/kardex-api/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para documentos de
// venta/compra y sus líneas.
type DocumentRepository interface {
	Create(document *entity.Document) error
	CreateLine(line *entity.DocumentLine) error
	GetByID(id string) (*entity.Document, error)
	GetLinesByDocumentID(documentID string) ([]*entity.DocumentLine, error)
	ListByBranch(branchID, kind string, limit, offset int) ([]*entity.Document, error)
}
