package s3

import (
	"fmt"
	"path"

	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/samber/lo"
)

// Document is one object written to the documents bucket
type Document struct {
	ID   string       `json:"id"`
	Data []byte       `json:"data"`
	Kind DocumentKind `json:"kind"`
	Type DocumentType `json:"type"`

	// Metadata is stored as S3 user metadata (x-amz-meta-*)
	Metadata map[string]string `json:"metadata,omitempty"`
}

type DocumentKind string

const (
	DocumentKindPdf DocumentKind = "pdf"
)

func (k DocumentKind) ContentType() string {
	switch k {
	case DocumentKindPdf:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

type DocumentType string

const (
	// DocumentTypeInvoiceBatch is one rendered batch: invoice grid plus summary
	DocumentTypeInvoiceBatch DocumentType = "invoice_batch"
)

var validDocumentTypes = []DocumentType{DocumentTypeInvoiceBatch}

func (t DocumentType) Validate() error {
	if !lo.Contains(validDocumentTypes, t) {
		return ierr.NewErrorf("invalid doc type: %s", t).
			WithHintf("valid doc types are: %v", validDocumentTypes).
			Mark(ierr.ErrSystem)
	}
	return nil
}

// objectKey is "<prefix>/<id>.pdf", or "<id>.pdf" without a prefix
func objectKey(prefix, id string, docType DocumentType) (string, error) {
	if err := docType.Validate(); err != nil {
		return "", err
	}
	return path.Join(prefix, fmt.Sprintf("%s.%s", id, DocumentKindPdf)), nil
}

func NewPdfDocument(id string, data []byte, docType DocumentType) *Document {
	return &Document{
		ID:   id,
		Data: data,
		Kind: DocumentKindPdf,
		Type: docType,
	}
}

// WithMetadata sets one user metadata entry and returns the document
func (d *Document) WithMetadata(key, value string) *Document {
	if d.Metadata == nil {
		d.Metadata = make(map[string]string)
	}
	d.Metadata[key] = value
	return d
}
