// manage.go — операции управления каталогом, проксируемые в Image Store:
// загрузка файла, удаление записи/папки, список поддерживаемых типов.
package storeclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Ошибки операций управления.
var (
	// ErrNotFound — backend не нашёл запись или папку.
	ErrNotFound = errors.New("запись не найдена в Image Store")
)

// UploadResult — ответ backend на загрузку, пробрасываемый клиенту как есть.
type UploadResult struct {
	// StatusCode — HTTP-статус backend
	StatusCode int
	// ContentType — Content-Type ответа backend
	ContentType string
	// Body — тело ответа backend (JSON с метаданными загруженной записи)
	Body []byte
}

// UploadProduct загружает файл в Image Store.
// POST /product/upload (multipart/form-data: file, product_type)
//
// Тело собирается через io.Pipe: файл стримится в backend без буферизации
// целиком в памяти (дизайн-файлы бывают сотни мегабайт).
func (c *Client) UploadProduct(ctx context.Context, productType, filename string, file io.Reader) (*UploadResult, error) {
	reqURL := c.storeURL + "/product/upload"

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeUploadForm(mw, productType, filename, file)
		if closeErr := mw.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, pr)
	if err != nil {
		return nil, fmt.Errorf("создание запроса UploadProduct: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.uploadClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("запрос UploadProduct к %s: %w", c.storeURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение ответа UploadProduct: %w", err)
	}

	return &UploadResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// writeUploadForm пишет поля multipart-формы загрузки.
func writeUploadForm(mw *multipart.Writer, productType, filename string, file io.Reader) error {
	if err := mw.WriteField("product_type", productType); err != nil {
		return fmt.Errorf("запись поля product_type: %w", err)
	}

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("создание части file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("копирование файла в форму: %w", err)
	}
	return nil
}

// DeleteProduct удаляет запись по ID.
// DELETE /products/{id}
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doDelete(ctx, "/products/"+url.PathEscape(id))
}

// DeleteFolder удаляет все записи типа продукта.
// DELETE /folders/{product_type}
func (c *Client) DeleteFolder(ctx context.Context, productType string) error {
	return c.doDelete(ctx, "/folders/"+url.PathEscape(productType))
}

// doDelete выполняет DELETE-запрос к backend.
func (c *Client) doDelete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.storeURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("создание запроса DELETE %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		return fmt.Errorf("запрос DELETE %s к %s: %w", path, c.storeURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Image Store вернул статус %d для DELETE %s: %s", resp.StatusCode, path, string(body))
	}
	return nil
}

// ListProductTypes возвращает список поддерживаемых типов продуктов.
// GET /product-types
// Принимаем голый массив строк или конверт {"product_types": [...]}.
func (c *Client) ListProductTypes(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.storeURL+"/product-types", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("создание запроса ListProductTypes: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		return nil, fmt.Errorf("запрос ListProductTypes к %s: %w", c.storeURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Image Store вернул статус %d: %s", resp.StatusCode, string(body))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("чтение ответа ListProductTypes: %w", err)
	}

	var types []string
	if err := json.Unmarshal(raw, &types); err == nil {
		return types, nil
	}

	var envelope struct {
		ProductTypes []string `json:"product_types"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("декодирование ответа /product-types: %w", err)
	}
	return envelope.ProductTypes, nil
}
