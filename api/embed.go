// Пакет api — OpenAPI контракт Browse Module.
// Контракт встроен в бинарник и применяется в runtime для валидации
// входящих запросов (см. internal/api/middleware/openapi.go).
package api

import _ "embed"

// OpenAPISpec — исходный текст контракта openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
