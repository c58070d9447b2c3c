// Package chainfile loads the initial chain catalog from a YAML or JSON
// document on disk or behind an HTTP URL.
package chainfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	dto "blockpoints-bridge/internal/adapter/storage/chainfile/dto"
	"blockpoints-bridge/internal/config"
	"blockpoints-bridge/internal/domain/entity"
	domainRepo "blockpoints-bridge/internal/domain/repository"
	"blockpoints-bridge/internal/pkg/apperrors"
)

// Compile-time check
var _ domainRepo.ChainSource = (*Repository)(nil)

// Repository implements ChainSource for a catalog file or URL.
type Repository struct {
	client  *fasthttp.Client
	source  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRepository creates a catalog loader for cfg.Source.
func NewRepository(cfg config.ChainsConfig, logger *zap.Logger) *Repository {
	return &Repository{
		client:  &fasthttp.Client{},
		source:  cfg.Source,
		timeout: cfg.GetTimeout(),
		logger:  logger.Named("ChainCatalogStorage"),
	}
}

// LoadChains reads and decodes the catalog, returning the valid entries.
func (r *Repository) LoadChains(ctx context.Context) ([]entity.ChainConfig, error) {
	var (
		body   []byte
		isJSON bool
		err    error
	)
	if isRemote(r.source) {
		body, isJSON, err = r.fetch(ctx)
	} else {
		body, err = os.ReadFile(r.source)
		if err != nil {
			r.logger.Error("Failed to read chain catalog file", zap.String("path", r.source), zap.Error(err))
			return nil, fmt.Errorf("%w: failed to read chain catalog %s: %v", apperrors.ErrInvalidInput, r.source, err)
		}
		isJSON = strings.EqualFold(filepath.Ext(r.source), ".json")
	}
	if err != nil {
		return nil, err
	}

	var catalog dto.CatalogRaw
	if isJSON {
		err = json.Unmarshal(body, &catalog)
	} else {
		err = yaml.Unmarshal(body, &catalog)
	}
	if err != nil {
		r.logger.Error("Failed to decode chain catalog",
			zap.String("source", r.source),
			zap.Bool("json", isJSON),
			zap.ByteString("bodySample", body[:min(1024, len(body))]),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: failed to parse chain catalog %s: %v", apperrors.ErrInvalidInput, r.source, err)
	}

	chains := toDomainChains(catalog.Chains, r.logger)
	r.logger.Info("Loaded chain catalog",
		zap.String("source", r.source),
		zap.Int("entries", len(catalog.Chains)),
		zap.Int("valid", len(chains)),
	)
	return chains, nil
}

func (r *Repository) fetch(ctx context.Context) ([]byte, bool, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.source)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip")

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}

	r.logger.Debug("Fetching chain catalog", zap.String("url", r.source), zap.Duration("timeout", timeout))

	if err := r.client.DoTimeout(req, resp, timeout); err != nil {
		r.logger.Error("Failed to execute chain catalog request", zap.Error(err))
		return nil, false, fmt.Errorf("%w: failed to fetch chain catalog: %v", apperrors.ErrExternalServiceFailure, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		r.logger.Error("Chain catalog returned non-OK status",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return nil, false, fmt.Errorf("%w: chain catalog returned status %d",
			apperrors.ErrExternalServiceFailure, resp.StatusCode(),
		)
	}

	var body []byte
	if bytes.EqualFold(resp.Header.Peek(fasthttp.HeaderContentEncoding), []byte("gzip")) {
		gunzipped, err := resp.BodyGunzip()
		if err != nil {
			return nil, false, fmt.Errorf("%w: failed to decompress chain catalog: %v",
				apperrors.ErrExternalServiceFailure, err,
			)
		}
		body = gunzipped
	} else {
		body = append([]byte(nil), resp.Body()...)
	}

	contentType := string(resp.Header.ContentType())
	isJSON := strings.Contains(contentType, "json") || strings.HasSuffix(strings.ToLower(r.source), ".json")
	return body, isJSON, nil
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
