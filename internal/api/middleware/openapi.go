// openapi.go — runtime-валидация запросов по OpenAPI контракту.
//
// Контракт (api/openapi.yaml) встроен в бинарник; вместо кодогенерации
// сервера запросы проверяются на лету через kin-openapi: метод, путь
// и query/path-параметры сверяются со схемой до попадания в обработчик.
// Тела запросов не валидируются — загрузка файлов стримится в backend,
// и читать её в память ради валидации нельзя.
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	apierrors "github.com/cardworks/imagestore/browse-module/internal/api/errors"
)

// NewOpenAPIValidator создаёт middleware валидации запросов по контракту.
// spec — исходный текст openapi.yaml (api.OpenAPISpec).
func NewOpenAPIValidator(spec []byte) (func(http.Handler) http.Handler, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("загрузка OpenAPI контракта: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("валидация OpenAPI контракта: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("построение OpenAPI router: %w", err)
	}

	options := &openapi3filter.Options{
		// Тела не читаем: upload стримится, см. комментарий пакета
		ExcludeRequestBody: true,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				if errors.Is(err, routers.ErrMethodNotAllowed) {
					apierrors.WriteError(w, http.StatusMethodNotAllowed, apierrors.CodeValidationError,
						"Метод не поддерживается для этого пути")
					return
				}
				apierrors.NotFound(w, "Неизвестный путь")
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				apierrors.ValidationError(w, fmt.Sprintf("Запрос не соответствует контракту: %v", err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
