package grouporders

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sumopedidos/sumo-backend/api/validators"
	internal "github.com/sumopedidos/sumo-backend/internal/grouporders"
	"github.com/sumopedidos/sumo-backend/pkg/enums"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
)

const maxBankOverrideLength = 500

type createGroupOrderRequest struct {
	MenuID         string    `json:"menu_id" validate:"required,uuid"`
	Slug           string    `json:"slug" validate:"required,min=3,max=80,slug"`
	Deadline       time.Time `json:"deadline" validate:"required"`
	DeliveryCostGs int64     `json:"delivery_cost_gs" validate:"gte=0"`
	MinTotalGs     *int64    `json:"min_total_gs" validate:"omitempty,gte=0"`
	MinItems       *int      `json:"min_items" validate:"omitempty,gte=0"`
	SplitStrategy  string    `json:"split_strategy" validate:"omitempty,oneof=even weighted"`

	CompanyName     *string `json:"company_name" validate:"omitempty,max=120"`
	CompanyWhatsApp *string `json:"company_whatsapp" validate:"omitempty,max=32,phone"`
	BankName        *string `json:"bank_name" validate:"omitempty,max=120"`
	BankHolder      *string `json:"bank_holder" validate:"omitempty,max=120"`
	BankAccount     *string `json:"bank_account" validate:"omitempty,max=64"`
	BankDoc         *string `json:"bank_doc" validate:"omitempty,max=32"`
	BankAlias       *string `json:"bank_alias" validate:"omitempty,max=64"`
}

func (r createGroupOrderRequest) toInput() (internal.CreateGroupOrderInput, error) {
	menuID, err := uuid.Parse(r.MenuID)
	if err != nil {
		return internal.CreateGroupOrderInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu_id")
	}
	strategy := enums.SplitStrategyEven
	if raw := strings.TrimSpace(r.SplitStrategy); raw != "" {
		strategy = enums.SplitStrategy(raw)
	}
	return internal.CreateGroupOrderInput{
		MenuID:          menuID,
		Slug:            r.Slug,
		Deadline:        r.Deadline,
		DeliveryCostGs:  r.DeliveryCostGs,
		MinTotalGs:      r.MinTotalGs,
		MinItems:        r.MinItems,
		SplitStrategy:   strategy,
		CompanyName:     validators.SanitizeOptional(r.CompanyName, 120),
		CompanyWhatsApp: validators.SanitizeOptional(r.CompanyWhatsApp, 32),
		BankName:        validators.SanitizeOptional(r.BankName, 120),
		BankHolder:      validators.SanitizeOptional(r.BankHolder, 120),
		BankAccount:     validators.SanitizeOptional(r.BankAccount, 64),
		BankDoc:         validators.SanitizeOptional(r.BankDoc, 32),
		BankAlias:       validators.SanitizeOptional(r.BankAlias, 64),
	}, nil
}

type submitLineRequest struct {
	Name      string  `json:"name" validate:"required,max=80"`
	WhatsApp  string  `json:"whatsapp" validate:"required,max=32,phone"`
	PayMethod string  `json:"pay_method" validate:"required,oneof=tc td transfer cash qr"`
	ItemID    string  `json:"item_id" validate:"required,uuid"`
	Qty       int     `json:"qty" validate:"gt=0"`
	Note      *string `json:"note" validate:"omitempty,max=300"`
}

func (r submitLineRequest) toInput() (internal.SubmitLineInput, error) {
	itemID, err := uuid.Parse(r.ItemID)
	if err != nil {
		return internal.SubmitLineInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item_id")
	}
	return internal.SubmitLineInput{
		Name:      validators.SanitizeString(r.Name, 80),
		WhatsApp:  strings.TrimSpace(r.WhatsApp),
		PayMethod: enums.PayMethod(r.PayMethod),
		ItemID:    itemID,
		Qty:       r.Qty,
		Note:      validators.SanitizeOptional(r.Note, 300),
	}, nil
}

type reminderRequest struct {
	BankOverride string `json:"bank_override" validate:"max=500"`
}

func (r reminderRequest) override() string {
	return validators.SanitizeString(r.BankOverride, maxBankOverrideLength)
}
