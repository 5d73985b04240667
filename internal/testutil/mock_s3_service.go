package testutil

import (
	"context"

	"github.com/flexprice/milkbill/internal/s3"
	"github.com/stretchr/testify/mock"
)

var _ s3.Service = (*MockS3Service)(nil)

type MockS3Service struct {
	mock.Mock
}

func NewMockS3Service() *MockS3Service {
	return &MockS3Service{}
}

func (m *MockS3Service) UploadDocument(ctx context.Context, document *s3.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockS3Service) GetPresignedUrl(ctx context.Context, id string, docType s3.DocumentType) (string, error) {
	args := m.Called(ctx, id, docType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) GetDocument(ctx context.Context, id string, docType s3.DocumentType) ([]byte, error) {
	args := m.Called(ctx, id, docType)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockS3Service) Exists(ctx context.Context, id string, docType s3.DocumentType) (bool, error) {
	args := m.Called(ctx, id, docType)
	return args.Bool(0), args.Error(1)
}
