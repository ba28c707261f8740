package notify

import (
	"fmt"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/models"
)

// templates maps each template kind to its message format. The placeholder
// count is the template's arity; Render rejects intents whose substitution
// values do not match it exactly.
var templates = map[string]struct {
	format string
	arity  int
}{
	models.TemplateDeliveryPartial: {
		format: "Dear %s, %s pots have been released from your locker. %s pots remain in storage. - CMS",
		arity:  3,
	},
	models.TemplateDeliveryFinal: {
		format: "Dear %s, the final %s pots have been released from your locker (%s remaining). Thank you for storing with us. - CMS",
		arity:  3,
	},
	models.TemplateRenewalConfirmed: {
		format: "Dear %s, your storage has been renewed for %s month(s). New expiry: %s. - CMS",
		arity:  3,
	},
	models.TemplateRenewalAdmin: {
		format: "Renewal processed: customer %s, entry #%s, amount Rs. %s.",
		arity:  3,
	},
	models.TemplateOTP: {
		format: "Your CMS verification code is %s. Valid for %s minutes. Do not share this code with anyone.",
		arity:  2,
	},
}

// Render produces the outgoing message text for an intent.
func Render(in *models.NotificationIntent) (string, error) {
	tmpl, ok := templates[in.TemplateKind]
	if !ok {
		return "", apperrors.Validation("unknown notification template %q", in.TemplateKind)
	}
	if len(in.SubstitutionValues) != tmpl.arity {
		return "", apperrors.Validation("template %q expects %d values, got %d",
			in.TemplateKind, tmpl.arity, len(in.SubstitutionValues))
	}
	args := make([]interface{}, len(in.SubstitutionValues))
	for i, v := range in.SubstitutionValues {
		args[i] = v
	}
	return fmt.Sprintf(tmpl.format, args...), nil
}
