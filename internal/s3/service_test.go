package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/flexprice/milkbill/internal/config"
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockObjectAPI) GetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *mockObjectAPI) HeadObject(ctx context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.HeadObjectOutput)
	return out, args.Error(1)
}

type mockPresigner struct {
	mock.Mock
}

func (m *mockPresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*v4.PresignedHTTPRequest)
	return out, args.Error(1)
}

type S3ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	client    *mockObjectAPI
	presigner *mockPresigner
	service   *s3ServiceImpl
}

func TestS3Service(t *testing.T) {
	suite.Run(t, new(S3ServiceSuite))
}

func (s *S3ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.client = new(mockObjectAPI)
	s.presigner = new(mockPresigner)

	cfg := config.GetDefaultConfig().S3
	cfg.Enabled = true
	cfg.Bucket = "milkbill-docs"
	cfg.KeyPrefix = "invoices"

	s.service = newService(s.client, s.presigner, &cfg, logger.NewNopLogger())
	s.service.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
}

func keyIs(key string) interface{} {
	return mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Key == key && *in.Bucket == "milkbill-docs" && *in.ContentType == "application/pdf"
	})
}

func (s *S3ServiceSuite) TestUploadDocument() {
	s.client.On("PutObject", s.ctx, keyIs("invoices/doc_1.pdf")).Return(&s3.PutObjectOutput{}, nil).Once()

	err := s.service.UploadDocument(s.ctx, NewPdfDocument("doc_1", []byte("%PDF"), DocumentTypeInvoiceBatch))
	s.Require().NoError(err)
	s.client.AssertExpectations(s.T())
}

func (s *S3ServiceSuite) TestUploadDocumentMetadata() {
	s.client.On("PutObject", s.ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return in.Metadata["batch_id"] == "batch_1" && in.Metadata["invoices"] == "13"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	doc := NewPdfDocument("doc_1", []byte("%PDF"), DocumentTypeInvoiceBatch).
		WithMetadata("batch_id", "batch_1").
		WithMetadata("invoices", "13")
	s.Require().NoError(s.service.UploadDocument(s.ctx, doc))
	s.client.AssertExpectations(s.T())
}

func (s *S3ServiceSuite) TestObjectKeyWithoutPrefix() {
	key, err := objectKey("", "doc_1", DocumentTypeInvoiceBatch)
	s.Require().NoError(err)
	s.Equal("doc_1.pdf", key)
}

func (s *S3ServiceSuite) TestUploadDocumentRetries() {
	s.client.On("PutObject", s.ctx, keyIs("invoices/doc_1.pdf")).Return(nil, errors.New("timeout")).Twice()
	s.client.On("PutObject", s.ctx, keyIs("invoices/doc_1.pdf")).Return(&s3.PutObjectOutput{}, nil).Once()

	err := s.service.UploadDocument(s.ctx, NewPdfDocument("doc_1", []byte("%PDF"), DocumentTypeInvoiceBatch))
	s.Require().NoError(err)
	s.client.AssertNumberOfCalls(s.T(), "PutObject", 3)
}

func (s *S3ServiceSuite) TestUploadDocumentGivesUp() {
	s.client.On("PutObject", s.ctx, mock.Anything).Return(nil, errors.New("denied"))

	err := s.service.UploadDocument(s.ctx, NewPdfDocument("doc_1", []byte("%PDF"), DocumentTypeInvoiceBatch))
	s.Require().Error(err)
	s.True(ierr.Is(err, ierr.ErrHTTPClient))
	s.client.AssertNumberOfCalls(s.T(), "PutObject", 3)
}

func (s *S3ServiceSuite) TestUnknownDocumentType() {
	err := s.service.UploadDocument(s.ctx, NewPdfDocument("doc_1", nil, "receipt"))
	s.Require().Error(err)
	s.True(ierr.Is(err, ierr.ErrSystem))
	s.client.AssertNotCalled(s.T(), "PutObject", mock.Anything, mock.Anything)
}

func (s *S3ServiceSuite) TestGetPresignedUrl() {
	s.presigner.On("PresignGetObject", s.ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Key == "invoices/doc_1.pdf"
	})).Return(&v4.PresignedHTTPRequest{URL: "https://example.test/doc_1.pdf"}, nil)

	url, err := s.service.GetPresignedUrl(s.ctx, "doc_1", DocumentTypeInvoiceBatch)
	s.Require().NoError(err)
	s.Equal("https://example.test/doc_1.pdf", url)
}

func (s *S3ServiceSuite) TestGetDocument() {
	s.client.On("GetObject", s.ctx, mock.Anything).
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("%PDF-1.4"))}, nil).Once()

	data, err := s.service.GetDocument(s.ctx, "doc_1", DocumentTypeInvoiceBatch)
	s.Require().NoError(err)
	s.Equal([]byte("%PDF-1.4"), data)
}

func (s *S3ServiceSuite) TestGetDocumentMissing() {
	s.client.On("GetObject", s.ctx, mock.Anything).Return(nil, &types.NoSuchKey{}).Once()

	_, err := s.service.GetDocument(s.ctx, "doc_1", DocumentTypeInvoiceBatch)
	s.Require().Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *S3ServiceSuite) TestExists() {
	s.client.On("HeadObject", s.ctx, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return *in.Key == "invoices/doc_1.pdf"
	})).Return(&s3.HeadObjectOutput{}, nil).Once()
	s.client.On("HeadObject", s.ctx, mock.Anything).Return(nil, &types.NotFound{}).Once()

	ok, err := s.service.Exists(s.ctx, "doc_1", DocumentTypeInvoiceBatch)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.service.Exists(s.ctx, "doc_2", DocumentTypeInvoiceBatch)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *S3ServiceSuite) TestDisabledServiceIsNil() {
	svc, err := NewService(config.GetDefaultConfig(), logger.NewNopLogger())
	s.Require().NoError(err)
	s.Nil(svc)
}
