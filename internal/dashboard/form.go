package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/subsense/internal/client"
	"github.com/magabrotheeeer/subsense/internal/models"
)

var (
	// ErrInvalidDraft - черновик не прошёл локальную проверку.
	ErrInvalidDraft = errors.New("invalid draft")
	// ErrSubmitInFlight - предыдущая отправка формы ещё не завершилась.
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// Draft - введённые в форму значения. Стоимость хранится строкой, как её ввёл пользователь.
type Draft struct {
	Name         string
	Cost         string
	BillingCycle string
	NextPayment  string
	Category     string
	Description  string
}

// NewDraft возвращает черновик со значениями по умолчанию.
func NewDraft() Draft {
	return Draft{
		BillingCycle: string(models.BillingMonthly),
		Category:     string(models.CategoryEntertainment),
	}
}

// Validate проверяет обязательные поля и стоимость. Нулевая стоимость считается незаполненной.
func (d Draft) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", d.Name},
		{"cost", d.Cost},
		{"billingCycle", d.BillingCycle},
		{"nextPayment", d.NextPayment},
		{"category", d.Category},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDraft, strings.Join(missing, ", "))
	}

	cost, err := strconv.ParseFloat(strings.TrimSpace(d.Cost), 64)
	if err != nil {
		return fmt.Errorf("%w: cost must be a number", ErrInvalidDraft)
	}
	if cost == 0 {
		return fmt.Errorf("%w: missing cost", ErrInvalidDraft)
	}
	if cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidDraft)
	}
	if !models.BillingCycle(d.BillingCycle).Valid() {
		return fmt.Errorf("%w: unknown billing cycle %q", ErrInvalidDraft, d.BillingCycle)
	}
	if !models.Category(d.Category).Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidDraft, d.Category)
	}
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(d.NextPayment)); err != nil {
		return fmt.Errorf("%w: nextPayment must be YYYY-MM-DD", ErrInvalidDraft)
	}
	return nil
}

// Request проверяет черновик и приводит стоимость к числу.
func (d Draft) Request() (client.CreateRequest, error) {
	if err := d.Validate(); err != nil {
		return client.CreateRequest{}, err
	}
	cost, _ := strconv.ParseFloat(strings.TrimSpace(d.Cost), 64)
	return client.CreateRequest{
		Name:         strings.TrimSpace(d.Name),
		Cost:         cost,
		BillingCycle: d.BillingCycle,
		NextPayment:  strings.TrimSpace(d.NextPayment),
		Category:     d.Category,
		Description:  strings.TrimSpace(d.Description),
	}, nil
}

// Form отправляет черновики в API и добавляет результат на Board.
type Form struct {
	api   API
	board *Board

	mu       sync.Mutex
	inFlight bool
	open     bool
}

// NewForm создаёт открытую форму.
func NewForm(api API, board *Board) *Form {
	return &Form{api: api, board: board, open: true}
}

// Open снова открывает форму.
func (f *Form) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
}

// IsOpen сообщает, открыта ли форма.
func (f *Form) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Submit отправляет черновик. При успехе подписка добавляется на Board,
// а форма закрывается. При ошибке форма остаётся открытой, а причина
// возвращается в Result. Повторный вызов во время отправки сразу
// возвращает ErrSubmitInFlight.
func (f *Form) Submit(ctx context.Context, d Draft) client.Result[models.Subscription] {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return client.Fail[models.Subscription](ErrSubmitInFlight)
	}
	f.inFlight = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	req, err := d.Request()
	if err != nil {
		return client.Fail[models.Subscription](err)
	}

	res := f.api.CreateSubscription(ctx, req)
	if !res.OK() {
		return res
	}

	f.board.Add(res.Value)
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
	return res
}
