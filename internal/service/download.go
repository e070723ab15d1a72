package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"learnplay-commerce/internal/apperr"
	"learnplay-commerce/internal/dto"
	"learnplay-commerce/internal/repository"
)

const downloadTokenTTL = 15 * time.Minute

// wooPaidStatuses are the mirrored storefront statuses that grant access to
// a purchased download.
var wooPaidStatuses = map[string]bool{
	"processing": true,
	"completed":  true,
}

type DownloadService interface {
	Authorize(ctx context.Context, fileID, userID string) (*dto.DownloadResponse, error)
}

type downloadServiceImpl struct {
	baseURL      string
	jwtSecret    string
	fileRepo     repository.FileRepository
	paymentRepo  repository.PaymentRepository
	wooOrderRepo repository.WooOrderRepository
	now          func() time.Time
}

func NewDownloadService(
	baseURL, jwtSecret string,
	fileRepo repository.FileRepository,
	paymentRepo repository.PaymentRepository,
	wooOrderRepo repository.WooOrderRepository,
) DownloadService {
	return &downloadServiceImpl{
		baseURL:      baseURL,
		jwtSecret:    jwtSecret,
		fileRepo:     fileRepo,
		paymentRepo:  paymentRepo,
		wooOrderRepo: wooOrderRepo,
		now:          time.Now,
	}
}

// Authorize checks that the user bought the product the file belongs to,
// through either checkout path, and issues a short-lived signed URL.
func (s *downloadServiceImpl) Authorize(ctx context.Context, fileID, userID string) (*dto.DownloadResponse, error) {
	if fileID == "" || userID == "" {
		return nil, apperr.Validation("fileId and userId are required")
	}

	file, err := s.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("file not found: %s", fileID)
		}
		return nil, apperr.Storage("look up file", err)
	}

	owned, err := s.ownsProduct(ctx, userID, file.ProductID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, apperr.Validation("access denied: file not purchased")
	}

	token, err := s.signDownloadToken(fileID, userID)
	if err != nil {
		return nil, fmt.Errorf("sign download token: %w", err)
	}

	return &dto.DownloadResponse{
		Success:     true,
		DownloadURL: fmt.Sprintf("%s/api/downloads/%s?token=%s", s.baseURL, fileID, token),
		Filename:    file.Filename,
	}, nil
}

func (s *downloadServiceImpl) ownsProduct(ctx context.Context, userID string, productID int64) (bool, error) {
	owned, err := s.paymentRepo.HasPurchasedProduct(ctx, userID, productID)
	if err != nil {
		return false, apperr.Storage("check purchase records", err)
	}
	if owned {
		return true, nil
	}

	orders, err := s.wooOrderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return false, apperr.Storage("check mirrored orders", err)
	}
	for _, order := range orders {
		if !wooPaidStatuses[order.Status] {
			continue
		}
		for _, item := range order.LineItems {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}

	return false, nil
}

func (s *downloadServiceImpl) signDownloadToken(fileID, userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":     userID,
		"file_id": fileID,
		"exp":     s.now().Add(downloadTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
