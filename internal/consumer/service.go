// Package consumer は顧客管理のドメインロジックを提供する。
package consumer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/cakery/internal/model"
	"github.com/hitoshi/cakery/internal/repository"
	"github.com/hitoshi/cakery/internal/security"
	"github.com/hitoshi/cakery/internal/validation"
)

// Input は顧客の書き込みペイロード。
// ポインタフィールドにより「未指定」と「ゼロ値の指定」を区別し、
// 更新時は指定されたフィールドのみを既存レコードにマージする。
type Input struct {
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	Address         *string   `json:"address"`
	PreferredFlavor *string   `json:"preferredFlavor"`
	Allergies       *string   `json:"allergies"`
	OrderHistory    *[]string `json:"orderHistory"`
	FavoriteCake    *string   `json:"favoriteCake"`
}

// MetricsRecorder はサービス層が依存するメトリクス記録の部分集合。
type MetricsRecorder interface {
	RecordValidationFailure(entity string)
	RecordRecordWritten(entity string)
}

// Service は顧客管理のサービス層。
// 一覧・取得・作成・更新・削除のビジネスロジックを提供する。
// 作成・更新はバリデーション→サニタイズ→永続化の順に処理する。
//
// favoriteCakeはケーキへの弱参照として保存する。参照先の存在検査や
// カスケード削除は行わず、ぶら下がった参照は読み取り時もそのまま返す。
type Service struct {
	consumerRepo repository.ConsumerRepository
	sanitizer    security.TextSanitizerService
	collector    MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(consumerRepo repository.ConsumerRepository, sanitizer security.TextSanitizerService, collector MetricsRecorder) *Service {
	return &Service{
		consumerRepo: consumerRepo,
		sanitizer:    sanitizer,
		collector:    collector,
	}
}

// List は全顧客を作成日時昇順で返す。0件の場合は空のスライスを返す。
func (s *Service) List(ctx context.Context) ([]*model.Consumer, *model.APIError) {
	consumers, err := s.consumerRepo.List(ctx)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if consumers == nil {
		consumers = []*model.Consumer{}
	}
	return consumers, nil
}

// Get は指定IDの顧客を返す。
// 存在しないIDも不正な形式のIDも一様に未検出として扱う。
func (s *Service) Get(ctx context.Context, id string) (*model.Consumer, *model.APIError) {
	consumer, err := s.consumerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if consumer == nil {
		return nil, model.NewConsumerNotFoundError(id)
	}
	return consumer, nil
}

// Create は新しい顧客を作成して返す。
// バリデーション違反がある場合は全件を含むエラーを返し、何も永続化しない。
func (s *Service) Create(ctx context.Context, input *Input) (*model.Consumer, *model.APIError) {
	now := time.Now()
	consumer := &model.Consumer{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(consumer, input)

	if apiErr := s.validate(consumer); apiErr != nil {
		return nil, apiErr
	}
	s.sanitize(consumer)

	if err := s.consumerRepo.Create(ctx, consumer); err != nil {
		return nil, model.NewPersistenceError(err)
	}

	s.collector.RecordRecordWritten("consumer")
	return consumer, nil
}

// Update は指定IDの顧客に入力をマージして更新し、更新後の状態を返す。
// マージ結果に対して作成時と同一のルールで再バリデーションする。
// 存在しないレコードは未検出として扱う（upsertしない）。
func (s *Service) Update(ctx context.Context, id string, input *Input) (*model.Consumer, *model.APIError) {
	consumer, err := s.consumerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if consumer == nil {
		return nil, model.NewConsumerNotFoundError(id)
	}

	applyInput(consumer, input)

	if apiErr := s.validate(consumer); apiErr != nil {
		return nil, apiErr
	}
	s.sanitize(consumer)
	consumer.UpdatedAt = time.Now()

	ok, err := s.consumerRepo.Update(ctx, consumer)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if !ok {
		return nil, model.NewConsumerNotFoundError(id)
	}

	s.collector.RecordRecordWritten("consumer")
	return consumer, nil
}

// Delete は指定IDの顧客を削除する。
func (s *Service) Delete(ctx context.Context, id string) *model.APIError {
	ok, err := s.consumerRepo.DeleteByID(ctx, id)
	if err != nil {
		return model.NewPersistenceError(err)
	}
	if !ok {
		return model.NewConsumerNotFoundError(id)
	}

	s.collector.RecordRecordWritten("consumer")
	return nil
}

// applyInput は入力の指定済みフィールドのみを顧客に反映する。
func applyInput(consumer *model.Consumer, input *Input) {
	if input.FirstName != nil {
		consumer.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		consumer.LastName = *input.LastName
	}
	if input.Email != nil {
		consumer.Email = *input.Email
	}
	if input.Phone != nil {
		consumer.Phone = *input.Phone
	}
	if input.Address != nil {
		consumer.Address = *input.Address
	}
	if input.PreferredFlavor != nil {
		consumer.PreferredFlavor = *input.PreferredFlavor
	}
	if input.Allergies != nil {
		consumer.Allergies = *input.Allergies
	}
	if input.OrderHistory != nil {
		consumer.OrderHistory = *input.OrderHistory
	}
	if input.FavoriteCake != nil {
		consumer.FavoriteCake = *input.FavoriteCake
	}
}

// validate は顧客全体をルール一式で検査する。
func (s *Service) validate(consumer *model.Consumer) *model.APIError {
	violations := validation.Evaluate(validation.ConsumerRules(), validation.ConsumerDocument(consumer))
	if len(violations) == 0 {
		return nil
	}
	s.collector.RecordValidationFailure("consumer")
	return model.NewValidationFailedError(violations)
}

// sanitize は自由記述フィールドからHTMLを除去する。
// emailとfavoriteCakeは構文検査済みのためサニタイズ対象外。
func (s *Service) sanitize(consumer *model.Consumer) {
	consumer.FirstName = s.sanitizer.Sanitize(consumer.FirstName)
	consumer.LastName = s.sanitizer.Sanitize(consumer.LastName)
	consumer.Address = s.sanitizer.Sanitize(consumer.Address)
	consumer.PreferredFlavor = s.sanitizer.Sanitize(consumer.PreferredFlavor)
	consumer.Allergies = s.sanitizer.Sanitize(consumer.Allergies)
	consumer.OrderHistory = s.sanitizer.SanitizeAll(consumer.OrderHistory)
}
