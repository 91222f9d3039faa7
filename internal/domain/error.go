package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"400"`
	Category string `json:"category" example:"VALIDATION_ERROR"`
	Message  string `json:"message" example:"O email informado é inválido."`
}

// Context é o tipo abstrato de contexto usado pelas interfaces de domínio.
// Mantém o pacote domain livre de dependências de infraestrutura; as camadas
// concretas fazem o casting para context.Context.
type Context interface{}
