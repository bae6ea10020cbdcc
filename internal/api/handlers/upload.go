// upload.go — обработчик POST /api/v1/products/upload.
// Принимает multipart-форму (file + product_type), валидирует поля
// и проксирует загрузку в Image Store; ответ backend пробрасывается как есть.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	apierrors "github.com/cardworks/imagestore/browse-module/internal/api/errors"
	"github.com/cardworks/imagestore/browse-module/internal/domain/model"
)

// multipartMemoryLimit — порог буферизации multipart-формы в памяти,
// остальное Go складывает во временные файлы.
const multipartMemoryLimit = 32 << 20

// HandleUpload — реализация POST /api/v1/products/upload.
func (h *APIHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	// Жёсткий лимит на размер запроса (BM_UPLOAD_MAX_SIZE)
	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxSize)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			apierrors.ValidationError(w, "Файл превышает максимально допустимый размер")
			return
		}
		apierrors.ValidationError(w, "Некорректная multipart-форма")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	productType := r.FormValue("product_type")

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.ValidationError(w, "Поле file обязательно")
		return
	}
	defer file.Close()

	if err := validateUploadForm(productType, header.Filename); err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	result, err := h.store.UploadProduct(r.Context(), productType, header.Filename, file)
	if err != nil {
		h.logger.Error("Ошибка проксирования загрузки в Image Store",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		apierrors.StoreUnavailable(w, "Image Store недоступен, загрузка не выполнена")
		return
	}

	// Ответ backend пробрасывается клиенту без изменений
	if result.ContentType != "" {
		w.Header().Set("Content-Type", result.ContentType)
	}
	w.WriteHeader(result.StatusCode)
	_, _ = w.Write(result.Body)
}

// validateUploadForm проверяет поля формы загрузки.
func validateUploadForm(productType, filename string) error {
	return validation.Errors{
		"product_type": validation.Validate(productType,
			validation.Required.Error("поле product_type обязательно"),
			validation.By(knownProductType),
		),
		"filename": validation.Validate(filename,
			validation.Required.Error("имя файла не может быть пустым"),
		),
	}.Filter()
}

// knownProductType — правило ozzo: код должен входить в канонический справочник.
// Загрузка создаёт папки только для известных типов; чтение при этом
// толерантно к любым кодам в данных.
func knownProductType(value any) error {
	code, _ := value.(string)
	if code == "" {
		return nil // Required уже отработал
	}
	if !model.KnownCategory(code) {
		return errors.New("неизвестный тип продукта")
	}
	return nil
}
