// Пакет storeclient — HTTP-клиент Image Store backend.
// Единственный источник коллекции записей: бьём в GET /products и получаем
// полный снимок реестра одним ответом. Стриминга нет — коллекция небольшая.
package storeclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
)

// Client — HTTP-клиент для Image Store backend.
type Client struct {
	httpClient *http.Client
	// uploadClient — отдельный клиент с длинным таймаутом для загрузки:
	// дизайн-файлы большие, общий таймаут запросов им не подходит.
	uploadClient *http.Client
	storeURL     string
	logger       *slog.Logger
}

// New создаёт Image Store клиент.
// storeURL — базовый URL backend (например, https://imagestore.up.railway.app).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
// timeout — таймаут HTTP-запросов (BM_STORE_TIMEOUT).
// uploadTimeout — таймаут проксируемой загрузки файлов (BM_UPLOAD_TIMEOUT).
func New(storeURL string, caCertPath string, timeout, uploadTimeout time.Duration, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}
	uploadClient := &http.Client{Timeout: uploadTimeout}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата Image Store: %w", err)
		}
		transport := &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		httpClient.Transport = transport
		uploadClient.Transport = transport
		logger.Info("CA-сертификат Image Store добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		httpClient:   httpClient,
		uploadClient: uploadClient,
		storeURL:     strings.TrimRight(storeURL, "/"),
		logger:       logger.With(slog.String("component", "store_client")),
	}, nil
}

// recordDTO — запись реестра в том виде, как её отдаёт backend.
// ID приходит либо как id, либо как _id (MongoDB), uploaded_at — ISO-8601.
type recordDTO struct {
	ID          string `json:"id"`
	MongoID     string `json:"_id"`
	ProductType string `json:"product_type"`
	ImageURL    string `json:"image_url"`
	UploadedAt  string `json:"uploaded_at"`
	Filename    string `json:"filename"`
}

// ListProducts возвращает полный снимок коллекции записей.
// GET /products
//
// Backend исторически отдаёт коллекцию в одном из трёх конвертов:
// голый массив, {"products": [...]} или {"data": [...]}. Принимаем все три.
func (c *Client) ListProducts(ctx context.Context) ([]*model.ImageRecord, error) {
	reqURL := c.storeURL + "/products"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса ListProducts: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("запрос ListProducts к %s: %w", c.storeURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Image Store вернул статус %d: %s", resp.StatusCode, string(body))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение ответа ListProducts: %w", err)
	}

	dtos, err := decodeProductsEnvelope(raw)
	if err != nil {
		return nil, err
	}

	return c.toRecords(dtos), nil
}

// decodeProductsEnvelope разбирает один из трёх конвертов ответа /products.
func decodeProductsEnvelope(raw []byte) ([]recordDTO, error) {
	var list []recordDTO
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var envelope struct {
		Products []recordDTO `json:"products"`
		Data     []recordDTO `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("декодирование ответа /products: %w", err)
	}
	if envelope.Products != nil {
		return envelope.Products, nil
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return nil, fmt.Errorf("неожиданный формат ответа /products")
}

// toRecords конвертирует DTO в доменные записи.
// Запись с нечитаемым uploaded_at пропускается с warning: одна битая запись
// не должна ронять построение дерева для остальных.
func (c *Client) toRecords(dtos []recordDTO) []*model.ImageRecord {
	records := make([]*model.ImageRecord, 0, len(dtos))
	for _, dto := range dtos {
		id := dto.ID
		if id == "" {
			id = dto.MongoID
		}

		uploadedAt, err := time.Parse(time.RFC3339, dto.UploadedAt)
		if err != nil {
			c.logger.Warn("Запись с некорректным uploaded_at пропущена",
				slog.String("id", id),
				slog.String("uploaded_at", dto.UploadedAt),
			)
			continue
		}

		records = append(records, &model.ImageRecord{
			ID:          id,
			ProductType: dto.ProductType,
			Filename:    dto.Filename,
			ImageURL:    dto.ImageURL,
			UploadedAt:  uploadedAt,
		})
	}
	return records
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA-сертификатом.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}
