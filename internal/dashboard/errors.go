package dashboard

import (
	"errors"

	"github.com/lucasrodor/projeto-financeiro/internal/calendar"
	"github.com/lucasrodor/projeto-financeiro/internal/external/labfin"
	"github.com/lucasrodor/projeto-financeiro/internal/performance"
	"github.com/lucasrodor/projeto-financeiro/internal/selection"
)

var (
	// ErrEmptyResult means the action succeeded but produced no rows
	ErrEmptyResult = errors.New("no data found for the selected parameters")

	// ErrNoPortfolio means a chart was requested before any portfolio
	ErrNoPortfolio = errors.New("no portfolio generated in this session")

	// ErrHistoryDisabled means no database is configured
	ErrHistoryDisabled = errors.New("portfolio history is disabled")
)

// Kind is the user-facing error category
type Kind string

const (
	KindNone       Kind = ""
	KindValidation Kind = "validation"
	KindWarning    Kind = "warning"
	KindNetwork    Kind = "network"
	KindInternal   Kind = "internal"
)

// Classify maps an action error to its category
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var verr *calendar.ValidationError
	var nerr *labfin.NetworkError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, selection.ErrUnknownMetric),
		errors.Is(err, ErrNoPortfolio):
		return KindValidation
	case errors.Is(err, ErrEmptyResult),
		errors.Is(err, performance.ErrNoOverlap):
		return KindWarning
	case errors.As(err, &nerr):
		return KindNetwork
	default:
		return KindInternal
	}
}

// Message returns the message shown to the user
func Message(err error) string {
	if err == nil {
		return ""
	}

	var verr *calendar.ValidationError
	if errors.As(err, &verr) {
		if errors.Is(err, calendar.ErrNotBusinessDay) {
			switch verr.Field {
			case "data_ini":
				return "A Data Inicial selecionada é inválida (feriado ou final de semana). Por favor, escolha outra data."
			case "data_fim":
				return "A Data Final selecionada é inválida (feriado ou final de semana). Por favor, escolha outra data."
			default:
				return "A data selecionada é inválida (feriado ou final de semana). Por favor, escolha outra data."
			}
		}
		if verr.Field == "periodo" {
			return "A data inicial deve ser anterior à data final."
		}
		return "Parâmetro inválido: " + verr.Error()
	}

	switch {
	case errors.Is(err, ErrNoPortfolio):
		return "Por favor, gere a carteira na página de Estratégia antes de visualizar os gráficos."
	case errors.Is(err, selection.ErrUnknownMetric):
		return "Indicador desconhecido."
	case errors.Is(err, ErrEmptyResult), errors.Is(err, performance.ErrNoOverlap):
		return "Nenhum dado encontrado."
	case errors.Is(err, ErrHistoryDisabled):
		return "Histórico de carteiras desativado."
	}

	var nerr *labfin.NetworkError
	if errors.As(err, &nerr) {
		if nerr.Unauthorized() {
			return "Falha de autenticação com o provedor de dados. Verifique o token."
		}
		return "Erro ao consultar o provedor de dados: " + nerr.Error()
	}

	return "Erro inesperado: " + err.Error()
}
