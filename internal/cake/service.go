// Package cake はケーキ管理のドメインロジックを提供する。
package cake

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cakery/internal/model"
	"github.com/hitoshi/cakery/internal/repository"
	"github.com/hitoshi/cakery/internal/security"
	"github.com/hitoshi/cakery/internal/validation"
)

// Input はケーキの書き込みペイロード。
// ポインタフィールドにより「未指定」と「ゼロ値の指定」を区別し、
// 更新時は指定されたフィールドのみを既存レコードにマージする。
type Input struct {
	Name        *string   `json:"name"`
	Size        *string   `json:"size"`
	Price       *float64  `json:"price"`
	Ingredients *[]string `json:"ingredients"`
}

// MetricsRecorder はサービス層が依存するメトリクス記録の部分集合。
type MetricsRecorder interface {
	RecordValidationFailure(entity string)
	RecordRecordWritten(entity string)
}

// Service はケーキ管理のサービス層。
// 一覧・取得・作成・更新・削除のビジネスロジックを提供する。
// 作成・更新はバリデーション→サニタイズ→永続化の順に処理する。
type Service struct {
	cakeRepo  repository.CakeRepository
	sanitizer security.TextSanitizerService
	collector MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(cakeRepo repository.CakeRepository, sanitizer security.TextSanitizerService, collector MetricsRecorder) *Service {
	return &Service{
		cakeRepo:  cakeRepo,
		sanitizer: sanitizer,
		collector: collector,
	}
}

// List は全ケーキを作成日時昇順で返す。0件の場合は空のスライスを返す。
func (s *Service) List(ctx context.Context) ([]*model.Cake, *model.APIError) {
	cakes, err := s.cakeRepo.List(ctx)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if cakes == nil {
		cakes = []*model.Cake{}
	}
	return cakes, nil
}

// Get は指定IDのケーキを返す。
// 存在しないIDも不正な形式のIDも一様に未検出として扱う。
func (s *Service) Get(ctx context.Context, id string) (*model.Cake, *model.APIError) {
	cake, err := s.cakeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if cake == nil {
		return nil, model.NewCakeNotFoundError(id)
	}
	return cake, nil
}

// Create は新しいケーキを作成して返す。
// バリデーション違反がある場合は全件を含むエラーを返し、何も永続化しない。
func (s *Service) Create(ctx context.Context, input *Input) (*model.Cake, *model.APIError) {
	now := time.Now()
	cake := &model.Cake{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(cake, input)

	if apiErr := s.validate(cake); apiErr != nil {
		return nil, apiErr
	}
	s.sanitize(cake)

	if err := s.cakeRepo.Create(ctx, cake); err != nil {
		return nil, model.NewPersistenceError(err)
	}

	s.collector.RecordRecordWritten("cake")
	return cake, nil
}

// Update は指定IDのケーキに入力をマージして更新し、更新後の状態を返す。
// マージ結果に対して作成時と同一のルールで再バリデーションする。
// 存在しないレコードは未検出として扱う（upsertしない）。
func (s *Service) Update(ctx context.Context, id string, input *Input) (*model.Cake, *model.APIError) {
	cake, err := s.cakeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if cake == nil {
		return nil, model.NewCakeNotFoundError(id)
	}

	applyInput(cake, input)

	if apiErr := s.validate(cake); apiErr != nil {
		return nil, apiErr
	}
	s.sanitize(cake)
	cake.UpdatedAt = time.Now()

	ok, err := s.cakeRepo.Update(ctx, cake)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if !ok {
		return nil, model.NewCakeNotFoundError(id)
	}

	s.collector.RecordRecordWritten("cake")
	return cake, nil
}

// Delete は指定IDのケーキを削除する。
// 顧客のfavoriteCakeが参照していても削除を妨げない（弱参照）。
func (s *Service) Delete(ctx context.Context, id string) *model.APIError {
	ok, err := s.cakeRepo.DeleteByID(ctx, id)
	if err != nil {
		return model.NewPersistenceError(err)
	}
	if !ok {
		return model.NewCakeNotFoundError(id)
	}

	s.collector.RecordRecordWritten("cake")
	return nil
}

// applyInput は入力の指定済みフィールドのみをケーキに反映する。
func applyInput(cake *model.Cake, input *Input) {
	if input.Name != nil {
		cake.Name = *input.Name
	}
	if input.Size != nil {
		cake.Size = model.CakeSize(*input.Size)
	}
	if input.Price != nil {
		cake.Price = *input.Price
	}
	if input.Ingredients != nil {
		cake.Ingredients = *input.Ingredients
	}
}

// validate はケーキ全体をルール一式で検査する。
func (s *Service) validate(cake *model.Cake) *model.APIError {
	violations := validation.Evaluate(validation.CakeRules(), validation.CakeDocument(cake))
	if len(violations) == 0 {
		return nil
	}
	s.collector.RecordValidationFailure("cake")
	return model.NewValidationFailedError(violations)
}

// sanitize は自由記述フィールドからHTMLを除去する。
func (s *Service) sanitize(cake *model.Cake) {
	cake.Name = s.sanitizer.Sanitize(cake.Name)
	cake.Ingredients = s.sanitizer.SanitizeAll(cake.Ingredients)
}
