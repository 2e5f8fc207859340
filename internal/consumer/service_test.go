package consumer

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/cakery/internal/model"
	"github.com/hitoshi/cakery/internal/security"
)

// mockConsumerRepo はConsumerRepositoryのテスト用モック。
type mockConsumerRepo struct {
	listFunc       func(ctx context.Context) ([]*model.Consumer, error)
	findByIDFunc   func(ctx context.Context, id string) (*model.Consumer, error)
	createFunc     func(ctx context.Context, consumer *model.Consumer) error
	updateFunc     func(ctx context.Context, consumer *model.Consumer) (bool, error)
	deleteByIDFunc func(ctx context.Context, id string) (bool, error)
}

func (m *mockConsumerRepo) List(ctx context.Context) ([]*model.Consumer, error) {
	return m.listFunc(ctx)
}

func (m *mockConsumerRepo) FindByID(ctx context.Context, id string) (*model.Consumer, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockConsumerRepo) Create(ctx context.Context, consumer *model.Consumer) error {
	return m.createFunc(ctx, consumer)
}

func (m *mockConsumerRepo) Update(ctx context.Context, consumer *model.Consumer) (bool, error) {
	return m.updateFunc(ctx, consumer)
}

func (m *mockConsumerRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	return m.deleteByIDFunc(ctx, id)
}

// mockMetrics はMetricsRecorderのテスト用モック。
type mockMetrics struct {
	validationFailures int
	recordsWritten     int
}

func (m *mockMetrics) RecordValidationFailure(entity string) { m.validationFailures++ }
func (m *mockMetrics) RecordRecordWritten(entity string)     { m.recordsWritten++ }

func strPtr(s string) *string      { return &s }
func listPtr(l []string) *[]string { return &l }

func newTestService(repo *mockConsumerRepo) (*Service, *mockMetrics) {
	m := &mockMetrics{}
	return NewService(repo, security.NewTextSanitizer(), m), m
}

func validInput() *Input {
	return &Input{
		FirstName: strPtr("花子"),
		LastName:  strPtr("山田"),
		Email:     strPtr("hanako@example.com"),
	}
}

// --- Create のテスト ---

func TestCreate_PersistsValidConsumer(t *testing.T) {
	var created *model.Consumer
	repo := &mockConsumerRepo{
		createFunc: func(ctx context.Context, consumer *model.Consumer) error {
			created = consumer
			return nil
		},
	}
	svc, m := newTestService(repo)

	input := validInput()
	input.Phone = strPtr("+81 90-1234-5678")
	input.OrderHistory = listPtr([]string{"ショートケーキ x2"})
	input.FavoriteCake = strPtr("6a30f2a4-9f5d-4c7e-8b21-3d8f0a1c9e77")

	consumer, apiErr := svc.Create(context.Background(), input)
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}

	if created == nil {
		t.Fatal("repository Create should be called")
	}
	if consumer.ID == "" {
		t.Error("consumer ID should be generated")
	}
	if consumer.Email != "hanako@example.com" {
		t.Errorf("email = %q, want %q", consumer.Email, "hanako@example.com")
	}
	if consumer.FavoriteCake != "6a30f2a4-9f5d-4c7e-8b21-3d8f0a1c9e77" {
		t.Errorf("favoriteCake = %q, want preserved", consumer.FavoriteCake)
	}
	if m.recordsWritten != 1 {
		t.Errorf("records written = %d, want 1", m.recordsWritten)
	}
}

func TestCreate_ReturnsAllViolationsWithoutPersisting(t *testing.T) {
	repo := &mockConsumerRepo{
		createFunc: func(ctx context.Context, consumer *model.Consumer) error {
			t.Error("Create should not be called for invalid input")
			return nil
		},
	}
	svc, m := newTestService(repo)

	// firstName欠落・lastName欠落・email不正・favoriteCake不正の4違反
	input := &Input{
		Email:        strPtr("not-an-email"),
		FavoriteCake: strPtr("not-a-uuid"),
	}

	_, apiErr := svc.Create(context.Background(), input)
	if apiErr == nil {
		t.Fatal("expected validation error")
	}
	if len(apiErr.Violations) != 4 {
		t.Fatalf("violations = %d, want 4: %+v", len(apiErr.Violations), apiErr.Violations)
	}

	fields := map[string]bool{}
	for _, v := range apiErr.Violations {
		fields[v.Field] = true
	}
	for _, want := range []string{"firstName", "lastName", "email", "favoriteCake"} {
		if !fields[want] {
			t.Errorf("violations should include field %q", want)
		}
	}
	if m.validationFailures != 1 {
		t.Errorf("validation failures = %d, want 1", m.validationFailures)
	}
}

func TestCreate_SanitizesFreeTextFields(t *testing.T) {
	var created *model.Consumer
	repo := &mockConsumerRepo{
		createFunc: func(ctx context.Context, consumer *model.Consumer) error {
			created = consumer
			return nil
		},
	}
	svc, _ := newTestService(repo)

	input := validInput()
	input.FirstName = strPtr(`<img src=x onerror=alert(1)>花子`)
	input.Allergies = strPtr("<b>ナッツ</b>")

	_, apiErr := svc.Create(context.Background(), input)
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}
	if created.FirstName != "花子" {
		t.Errorf("firstName = %q, want HTML stripped", created.FirstName)
	}
	if created.Allergies != "ナッツ" {
		t.Errorf("allergies = %q, want HTML stripped", created.Allergies)
	}
}

// --- Get / List のテスト ---

func TestGet_ReturnsNotFoundForUnknownID(t *testing.T) {
	repo := &mockConsumerRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Consumer, error) {
			return nil, nil
		},
	}
	svc, _ := newTestService(repo)

	_, apiErr := svc.Get(context.Background(), "0b6a9c1e-0000-0000-0000-000000000000")
	if apiErr == nil {
		t.Fatal("expected not found error")
	}
	if apiErr.Code != model.ErrCodeConsumerNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeConsumerNotFound)
	}
}

func TestGet_PreservesDanglingFavoriteCake(t *testing.T) {
	// 参照先のケーキが削除済みでもfavoriteCakeはそのまま返す
	repo := &mockConsumerRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Consumer, error) {
			return &model.Consumer{
				ID:           id,
				FirstName:    "花子",
				LastName:     "山田",
				Email:        "hanako@example.com",
				FavoriteCake: "6a30f2a4-9f5d-4c7e-8b21-3d8f0a1c9e77",
			}, nil
		},
	}
	svc, _ := newTestService(repo)

	consumer, apiErr := svc.Get(context.Background(), "consumer-1")
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}
	if consumer.FavoriteCake != "6a30f2a4-9f5d-4c7e-8b21-3d8f0a1c9e77" {
		t.Errorf("favoriteCake = %q, want dangling reference preserved", consumer.FavoriteCake)
	}
}

func TestList_ReturnsEmptySliceForNoRows(t *testing.T) {
	repo := &mockConsumerRepo{
		listFunc: func(ctx context.Context) ([]*model.Consumer, error) {
			return nil, nil
		},
	}
	svc, _ := newTestService(repo)

	consumers, apiErr := svc.List(context.Background())
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}
	if consumers == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestList_ReturnsPersistenceErrorWithStoreMessage(t *testing.T) {
	repo := &mockConsumerRepo{
		listFunc: func(ctx context.Context) ([]*model.Consumer, error) {
			return nil, errors.New("pq: relation does not exist")
		},
	}
	svc, _ := newTestService(repo)

	_, apiErr := svc.List(context.Background())
	if apiErr == nil {
		t.Fatal("expected persistence error")
	}
	if apiErr.Message != "pq: relation does not exist" {
		t.Errorf("message = %q, want store message passed through", apiErr.Message)
	}
}

// --- Update のテスト ---

func TestUpdate_MergesInputOverExistingRecord(t *testing.T) {
	existing := &model.Consumer{
		ID:           "consumer-1",
		FirstName:    "花子",
		LastName:     "山田",
		Email:        "hanako@example.com",
		Phone:        "+81 90-1234-5678",
		OrderHistory: []string{"ショートケーキ x2"},
	}

	repo := &mockConsumerRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Consumer, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, consumer *model.Consumer) (bool, error) {
			return true, nil
		},
	}
	svc, _ := newTestService(repo)

	// addressのみ指定: 他フィールドは既存値が残る
	input := &Input{Address: strPtr("東京都渋谷区1-2-3")}

	consumer, apiErr := svc.Update(context.Background(), "consumer-1", input)
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}
	if consumer.Address != "東京都渋谷区1-2-3" {
		t.Errorf("address = %q, want updated", consumer.Address)
	}
	if consumer.FirstName != "花子" || consumer.Email != "hanako@example.com" {
		t.Error("unspecified fields should keep existing values")
	}
	if len(consumer.OrderHistory) != 1 {
		t.Errorf("orderHistory length = %d, want unchanged", len(consumer.OrderHistory))
	}
}

func TestUpdate_RevalidatesMergedRecord(t *testing.T) {
	existing := &model.Consumer{
		ID:        "consumer-1",
		FirstName: "花子",
		LastName:  "山田",
		Email:     "hanako@example.com",
	}
	repo := &mockConsumerRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Consumer, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, consumer *model.Consumer) (bool, error) {
			t.Error("Update should not be called for invalid merged record")
			return true, nil
		},
	}
	svc, _ := newTestService(repo)

	// マージ後にemailが不正になる更新は拒否される
	input := &Input{Email: strPtr("broken@")}

	_, apiErr := svc.Update(context.Background(), "consumer-1", input)
	if apiErr == nil {
		t.Fatal("expected validation error")
	}
	if apiErr.Code != model.ErrCodeValidationFailed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeValidationFailed)
	}
}

func TestUpdate_ReturnsNotFoundForUnknownID(t *testing.T) {
	repo := &mockConsumerRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Consumer, error) {
			return nil, nil
		},
	}
	svc, _ := newTestService(repo)

	_, apiErr := svc.Update(context.Background(), "no-such-consumer", &Input{Address: strPtr("東京")})
	if apiErr == nil {
		t.Fatal("expected not found error")
	}
	if apiErr.Code != model.ErrCodeConsumerNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeConsumerNotFound)
	}
}

// --- Delete のテスト ---

func TestDelete_RemovesExistingConsumer(t *testing.T) {
	repo := &mockConsumerRepo{
		deleteByIDFunc: func(ctx context.Context, id string) (bool, error) {
			return true, nil
		},
	}
	svc, m := newTestService(repo)

	if apiErr := svc.Delete(context.Background(), "consumer-1"); apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}
	if m.recordsWritten != 1 {
		t.Errorf("records written = %d, want 1", m.recordsWritten)
	}
}

func TestDelete_ReturnsNotFoundForUnknownID(t *testing.T) {
	repo := &mockConsumerRepo{
		deleteByIDFunc: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc, _ := newTestService(repo)

	apiErr := svc.Delete(context.Background(), "no-such-consumer")
	if apiErr == nil {
		t.Fatal("expected not found error")
	}
	if apiErr.Code != model.ErrCodeConsumerNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeConsumerNotFound)
	}
}
