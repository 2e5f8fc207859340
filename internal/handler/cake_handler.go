package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cakery/internal/cake"
	"github.com/hitoshi/cakery/internal/middleware"
	"github.com/hitoshi/cakery/internal/model"
)

// CakeServiceInterface はケーキハンドラーが必要とするサービスインターフェース。
type CakeServiceInterface interface {
	List(ctx context.Context) ([]*model.Cake, *model.APIError)
	Get(ctx context.Context, id string) (*model.Cake, *model.APIError)
	Create(ctx context.Context, input *cake.Input) (*model.Cake, *model.APIError)
	Update(ctx context.Context, id string, input *cake.Input) (*model.Cake, *model.APIError)
	Delete(ctx context.Context, id string) *model.APIError
}

// CakeHandler はケーキ管理のHTTPハンドラー。
type CakeHandler struct {
	service CakeServiceInterface
}

// NewCakeHandler はCakeHandlerを生成する。
func NewCakeHandler(service CakeServiceInterface) *CakeHandler {
	return &CakeHandler{service: service}
}

// cakeResponse はケーキ情報のAPIレスポンス。
type cakeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Size        string    `json:"size"`
	Price       float64   `json:"price"`
	Ingredients []string  `json:"ingredients"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListCakes は全ケーキの一覧を返す。
// GET /api/cakes
func (h *CakeHandler) ListCakes(w http.ResponseWriter, r *http.Request) {
	cakes, apiErr := h.service.List(r.Context())
	if apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	responses := make([]cakeResponse, len(cakes))
	for i, c := range cakes {
		responses[i] = toCakeResponse(c)
	}

	writeJSON(w, http.StatusOK, responses)
}

// GetCake はケーキ詳細を取得する。
// GET /api/cakes/:id
func (h *CakeHandler) GetCake(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, apiErr := h.service.Get(r.Context(), id)
	if apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, toCakeResponse(c))
}

// CreateCake はケーキを新規作成する。
// POST /api/cakes
func (h *CakeHandler) CreateCake(w http.ResponseWriter, r *http.Request) {
	var input cake.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handleServiceError(w, model.NewInvalidBodyError())
		return
	}

	c, apiErr := h.service.Create(r.Context(), &input)
	if apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusCreated, toCakeResponse(c))
}

// UpdateCake はケーキを更新する。指定フィールドのみ既存レコードにマージする。
// PUT /api/cakes/:id
func (h *CakeHandler) UpdateCake(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input cake.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handleServiceError(w, model.NewInvalidBodyError())
		return
	}

	c, apiErr := h.service.Update(r.Context(), id, &input)
	if apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, toCakeResponse(c))
}

// DeleteCake はケーキを削除し、確認メッセージを返す。
// DELETE /api/cakes/:id
func (h *CakeHandler) DeleteCake(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if apiErr := h.service.Delete(r.Context(), id); apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Cake deleted"})
}

// --- ヘルパー関数 ---

// toCakeResponse はmodel.CakeからAPIレスポンスに変換する。
func toCakeResponse(c *model.Cake) cakeResponse {
	ingredients := c.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return cakeResponse{
		ID:          c.ID,
		Name:        c.Name,
		Size:        string(c.Size),
		Price:       c.Price,
		Ingredients: ingredients,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvalidBody:
		return http.StatusBadRequest
	case model.ErrCodeCakeNotFound, model.ErrCodeConsumerNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
