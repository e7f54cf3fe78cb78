package prompts

import (
	_ "embed"
	"fmt"
	"time"

	"pc-setup-agent/internal/domain/entity"

	lcprompts "github.com/tmc/langchaingo/prompts"
)

//go:embed setup.txt
var SetupPrompt string

var monthsPT = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// DateContext renders t as "<Mês> de <ano>".
func DateContext(t time.Time) string {
	return fmt.Sprintf("%s de %d", monthsPT[t.Month()-1], t.Year())
}

type SetupPromptBuilder struct {
	template lcprompts.PromptTemplate
	now      func() time.Time
}

func NewSetupPromptBuilder(tmpl string, now func() time.Time) *SetupPromptBuilder {
	if tmpl == "" {
		tmpl = SetupPrompt
	}
	if now == nil {
		now = time.Now
	}
	return &SetupPromptBuilder{
		template: lcprompts.NewPromptTemplate(tmpl, []string{"budget", "use_case", "date_context"}),
		now:      now,
	}
}

func (b *SetupPromptBuilder) Build(req entity.SetupRequest) (string, error) {
	text, err := b.template.Format(map[string]any{
		"budget":       req.Budget,
		"use_case":     req.UseCase,
		"date_context": DateContext(b.now()),
	})
	if err != nil {
		return "", fmt.Errorf("render setup prompt: %w", err)
	}
	return text, nil
}
