// Package validation contém o motor de validação de campos e de pontuação de
// completude do perfil. Funções puras, sem efeitos colaterais e sem nenhum
// conhecimento do estado do servidor: a mesma entrada produz sempre a mesma
// saída. É a única fonte de verdade tanto para o feedback ao vivo (on-change)
// quanto para o gate de pré-submissão.
package validation

import (
	"math"
	"regexp"
	"strings"

	"hireme/internal/domain"
)

// Padrões de validação dos campos individuais.
var (
	// email: forma local@dominio.tld
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// phone: estilo discagem internacional, após remover espaços/traços/parênteses
	phonePattern = regexp.MustCompile(`^[+]?[1-9][\d]{0,15}$`)
	// separadores tolerados na digitação do telefone
	phoneSeparators = regexp.MustCompile(`[\s\-()]`)
)

// ValidateField valida um único campo e retorna uma mensagem de erro legível,
// ou string vazia quando o valor é válido. Campos desconhecidos são aceitos.
func ValidateField(fieldName, value string) string {
	switch fieldName {
	case "email":
		if value == "" {
			return "O email é obrigatório."
		}
		if !emailPattern.MatchString(value) {
			return "Formato de email inválido."
		}
	case "phone":
		// Opcional: vazio é válido; se presente, precisa ter forma numérica internacional
		if value != "" && !phonePattern.MatchString(phoneSeparators.ReplaceAllString(value, "")) {
			return "Número de telefone inválido."
		}
	case "firstName":
		if value == "" {
			return "O primeiro nome é obrigatório."
		}
		if len(strings.TrimSpace(value)) < 2 {
			return "O primeiro nome deve ter pelo menos 2 caracteres."
		}
	case "lastName":
		if value == "" {
			return "O sobrenome é obrigatório."
		}
		if len(strings.TrimSpace(value)) < 2 {
			return "O sobrenome deve ter pelo menos 2 caracteres."
		}
	case "country":
		if value == "" {
			return "O país é obrigatório."
		}
	case "city":
		if value == "" {
			return "A cidade é obrigatória."
		}
	case "role":
		if value == "" {
			return "O papel é obrigatório."
		}
	}
	return ""
}

// Sections define os grupos nomeados de campos editáveis do perfil.
var Sections = map[string][]string{
	"personal": {"firstName", "lastName", "email", "phone", "role"},
	"address":  {"country", "city"},
}

// ValidateSection aplica ValidateField a todos os campos de um grupo nomeado.
// Retorna o mapa campo→erro apenas com os campos inválidos; a seção só é
// submetível quando o mapa é vazio. Seções desconhecidas resultam em mapa vazio.
func ValidateSection(section string, fields map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, field := range Sections[section] {
		if msg := ValidateField(field, fields[field]); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// fieldWeights atribui pesos fixos aos campos rastreados (somam 100).
var fieldWeights = []struct {
	Field  string
	Weight int
}{
	{"firstName", 15},
	{"lastName", 15},
	{"email", 20},
	{"phone", 10},
	{"role", 10},
	{"country", 10},
	{"city", 10},
	{"profileImage", 10},
}

// ComputeCompletion calcula o percentual de completude do perfil a partir do
// snapshot atual. Um campo conta como completo quando presente e não-branco
// após trim. Resultado é o percentual arredondado do peso total satisfeito.
func ComputeCompletion(profile domain.User) int {
	values := map[string]string{
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"email":     profile.Email,
		"phone":     profile.Phone,
		"role":      string(profile.Role),
		"country":   profile.Country,
		"city":      profile.City,
	}
	if profile.ProfileImage != nil {
		values["profileImage"] = *profile.ProfileImage
	}

	totalWeight := 0
	completedWeight := 0
	for _, fw := range fieldWeights {
		totalWeight += fw.Weight
		if strings.TrimSpace(values[fw.Field]) != "" {
			completedWeight += fw.Weight
		}
	}

	return int(math.Round(float64(completedWeight) / float64(totalWeight) * 100))
}
