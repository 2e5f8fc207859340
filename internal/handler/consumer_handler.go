package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/cakery/internal/consumer"
	"github.com/hitoshi/cakery/internal/model"
)

// ConsumerServiceInterface は顧客ハンドラーが必要とするサービスインターフェース。
type ConsumerServiceInterface interface {
	List(ctx context.Context) ([]*model.Consumer, *model.APIError)
	Get(ctx context.Context, id string) (*model.Consumer, *model.APIError)
	Create(ctx context.Context, input *consumer.Input) (*model.Consumer, *model.APIError)
	Update(ctx context.Context, id string, input *consumer.Input) (*model.Consumer, *model.APIError)
	Delete(ctx context.Context, id string) *model.APIError
}

// ConsumerHandler は顧客管理のHTTPハンドラー。
type ConsumerHandler struct {
	service ConsumerServiceInterface
}

// NewConsumerHandler はConsumerHandlerを生成する。
func NewConsumerHandler(service ConsumerServiceInterface) *ConsumerHandler {
	return &ConsumerHandler{service: service}
}

// consumerResponse は顧客情報のAPIレスポンス。
// favoriteCakeは弱参照のため、参照先が削除済みでもIDをそのまま返す。
type consumerResponse struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	PreferredFlavor string    `json:"preferredFlavor,omitempty"`
	Allergies       string    `json:"allergies,omitempty"`
	OrderHistory    []string  `json:"orderHistory"`
	FavoriteCake    string    `json:"favoriteCake,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ListConsumers は全顧客の一覧を返す。
// GET /api/consumers
func (h *ConsumerHandler) ListConsumers(w http.ResponseWriter, r *http.Request) {
	consumers, apiErr := h.service.List(r.Context())
	if apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	responses := make([]consumerResponse, len(consumers))
	for i, c := range consumers {
		responses[i] = toConsumerResponse(c)
	}

	writeJSON(w, http.StatusOK, responses)
}

// GetConsumer は顧客詳細を取得する。
// GET /api/consumers/:id
func (h *ConsumerHandler) GetConsumer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	c, apiErr := h.service.Get(r.Context(), id)
	if apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, toConsumerResponse(c))
}

// CreateConsumer は顧客を新規作成する。
// POST /api/consumers
func (h *ConsumerHandler) CreateConsumer(w http.ResponseWriter, r *http.Request) {
	var input consumer.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handleServiceError(w, model.NewInvalidBodyError())
		return
	}

	c, apiErr := h.service.Create(r.Context(), &input)
	if apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusCreated, toConsumerResponse(c))
}

// UpdateConsumer は顧客を更新する。指定フィールドのみ既存レコードにマージする。
// PUT /api/consumers/:id
func (h *ConsumerHandler) UpdateConsumer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input consumer.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handleServiceError(w, model.NewInvalidBodyError())
		return
	}

	c, apiErr := h.service.Update(r.Context(), id, &input)
	if apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, toConsumerResponse(c))
}

// DeleteConsumer は顧客を削除し、確認メッセージを返す。
// DELETE /api/consumers/:id
func (h *ConsumerHandler) DeleteConsumer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if apiErr := h.service.Delete(r.Context(), id); apiErr != nil {
		handleServiceError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Consumer deleted"})
}

// toConsumerResponse はmodel.ConsumerからAPIレスポンスに変換する。
func toConsumerResponse(c *model.Consumer) consumerResponse {
	history := c.OrderHistory
	if history == nil {
		history = []string{}
	}
	return consumerResponse{
		ID:              c.ID,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		PreferredFlavor: c.PreferredFlavor,
		Allergies:       c.Allergies,
		OrderHistory:    history,
		FavoriteCake:    c.FavoriteCake,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
