package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/dtos"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ResumeStorage persists an uploaded file (resumes and employer logos) and
// returns the reference stored on the owning record.
type ResumeStorage interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// DiskStorage writes files under Dir; they are served from /uploads.
type DiskStorage struct {
	Dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskStorage{Dir: dir}, nil
}

func (d *DiskStorage) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(d.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write resume: %w", err)
	}
	return path.Join("/uploads", name), nil
}

type S3Storage struct {
	Client *s3.Client
	Bucket string
}

type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Storage builds a client for S3 or an S3 compatible endpoint such as R2.
func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		awsconfig.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Storage{Client: client, Bucket: opts.Bucket}, nil
}

func (s *S3Storage) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join("uploads", name)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.Bucket, key), nil
}

type ResumeService struct {
	Storage  ResumeStorage
	LLM      *LLMService
	MaxBytes int64
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewResumeService(storage ResumeStorage, llm *LLMService, maxBytes int64, log *zap.Logger) *ResumeService {
	return &ResumeService{Storage: storage, LLM: llm, MaxBytes: maxBytes, Logger: log, Now: time.Now}
}

// Upload stores a PDF or DOCX resume and extracts its text. Extraction and
// skill suggestion failures are logged; only storage failures fail the upload.
func (s *ResumeService) Upload(ctx context.Context, filename string, data []byte) (*dtos.ResumeUploadResponse, error) {
	if len(data) == 0 {
		return nil, common.NewValidationError("No file uploaded", map[string]string{"resume": "is required"})
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return nil, common.NewValidationError("File too large",
			map[string]string{"resume": fmt.Sprintf("must be at most %d bytes", s.MaxBytes)})
	}
	mime, ext, err := detectResumeType(filename, data)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%d-%s%s", s.Now().UnixMilli(), uuid.NewString()[:8], ext)
	ref, err := s.Storage.Save(ctx, name, mime, data)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "Error uploading resume", err)
	}
	resp := &dtos.ResumeUploadResponse{FilePath: ref, SuggestedSkills: []string{}}

	text, err := ExtractResumeText(mime, data)
	if err != nil {
		s.Logger.Warn("resume text extraction failed", zap.String("file", ref), zap.Error(err))
		return resp, nil
	}
	resp.ExtractedResumeText = strings.TrimSpace(text)

	if s.LLM != nil && resp.ExtractedResumeText != "" {
		skills, err := s.LLM.ExtractSkills(ctx, resp.ExtractedResumeText)
		if err != nil {
			s.Logger.Warn("resume skill extraction failed", zap.String("file", ref), zap.Error(err))
		} else {
			resp.SuggestedSkills = skills
		}
	}
	s.Logger.Info("resume uploaded",
		zap.String("file", ref),
		zap.Int("bytes", len(data)),
		zap.Int("text_length", len(resp.ExtractedResumeText)),
	)
	return resp, nil
}

// detectResumeType accepts a file when both its extension and its leading
// bytes agree on PDF or DOCX.
func detectResumeType(filename string, data []byte) (mime, ext string, err error) {
	ext = strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".pdf" && bytes.HasPrefix(data, []byte("%PDF-")):
		return MimePDF, ext, nil
	case ext == ".docx" && bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return MimeDOCX, ext, nil
	}
	return "", "", common.NewValidationError("Only PDF and DOCX files are allowed",
		map[string]string{"resume": "must be a PDF or DOCX file"})
}

func ExtractResumeText(mime string, data []byte) (string, error) {
	switch mime {
	case "text/plain":
		return string(data), nil
	case MimePDF:
		return extractPDFText(data)
	case MimeDOCX:
		return extractDocxText(data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", mime)
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to read pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()
	return doc.Editable().GetContent(), nil
}
