package validation_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hireme/internal/client/validation"
	"hireme/internal/domain"
)

func strPtr(s string) *string { return &s }

// TestValidateField_Email testa os vetores de email.
func TestValidateField_Email(t *testing.T) {
	valid := []string{"a@b.co", "jane.doe@example.com", "user+tag@sub.dominio.org"}
	for _, email := range valid {
		assert.Empty(t, validation.ValidateField("email", email), "email %q deveria ser válido", email)
	}

	invalid := []string{"", "semarroba", "a@b", "a @b.com", "@dominio.com", "a@.com "}
	for _, email := range invalid {
		assert.NotEmpty(t, validation.ValidateField("email", email), "email %q deveria ser inválido", email)
	}
}

// TestValidateField_Phone testa os vetores de telefone, incluindo separadores.
func TestValidateField_Phone(t *testing.T) {
	valid := []string{
		"",                  // opcional
		"+5511999990000",    // internacional
		"+1 (555) 123-4567", // separadores tolerados
		"11 99999-0000",
	}
	for _, phone := range valid {
		assert.Empty(t, validation.ValidateField("phone", phone), "telefone %q deveria ser válido", phone)
	}

	invalid := []string{
		"0123456",          // não pode começar com zero
		"abc",              // não numérico
		"+",                // só o prefixo
		"+123456789012345678", // acima de 16 dígitos
	}
	for _, phone := range invalid {
		assert.NotEmpty(t, validation.ValidateField("phone", phone), "telefone %q deveria ser inválido", phone)
	}
}

// TestValidateField_Names testa o mínimo de 2 caracteres após trim.
func TestValidateField_Names(t *testing.T) {
	assert.NotEmpty(t, validation.ValidateField("firstName", ""))
	assert.NotEmpty(t, validation.ValidateField("firstName", "J"))
	assert.NotEmpty(t, validation.ValidateField("firstName", " J "))
	assert.Empty(t, validation.ValidateField("firstName", "Jo"))

	assert.NotEmpty(t, validation.ValidateField("lastName", "D"))
	assert.Empty(t, validation.ValidateField("lastName", "Doe"))
}

// TestValidateField_Unknown testa que campos desconhecidos são aceitos.
func TestValidateField_Unknown(t *testing.T) {
	assert.Empty(t, validation.ValidateField("nickname", ""))
	assert.Empty(t, validation.ValidateField("nickname", "qualquer"))
}

// TestValidateSection testa o gate de submissão por seção.
func TestValidateSection(t *testing.T) {
	fields := map[string]string{
		"firstName": "Jane",
		"lastName":  "D", // curto demais
		"email":     "jane@example.com",
		"phone":     "",
		"role":      "Job Seeker",
	}

	errs := validation.ValidateSection("personal", fields)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "lastName")

	fields["lastName"] = "Doe"
	assert.Empty(t, validation.ValidateSection("personal", fields))

	// Seção address com tudo vazio: ambos os campos falham
	errs = validation.ValidateSection("address", map[string]string{})
	assert.Len(t, errs, 2)

	// Seção desconhecida: mapa vazio, nunca erro
	assert.Empty(t, validation.ValidateSection("inexistente", fields))
}

// TestComputeCompletion_HalfProfile testa o vetor exato de 50%:
// firstName (15) + lastName (15) + email (20) = 50.
func TestComputeCompletion_HalfProfile(t *testing.T) {
	profile := domain.User{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "j@d.com",
	}

	assert.Equal(t, 50, validation.ComputeCompletion(profile))
}

// TestComputeCompletion_Extremes testa perfil vazio e perfil completo.
func TestComputeCompletion_Extremes(t *testing.T) {
	assert.Equal(t, 0, validation.ComputeCompletion(domain.User{}))

	full := domain.User{
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		Phone:        "+5511999990000",
		Role:         domain.RoleRecruiter,
		Country:      "Brasil",
		City:         "São Paulo",
		ProfileImage: strPtr("http://blob/jane.jpg"),
	}
	assert.Equal(t, 100, validation.ComputeCompletion(full))
}

// TestComputeCompletion_Monotonic testa que preencher um campo nunca reduz a
// pontuação.
func TestComputeCompletion_Monotonic(t *testing.T) {
	profile := domain.User{}
	prev := validation.ComputeCompletion(profile)

	steps := []func(*domain.User){
		func(u *domain.User) { u.FirstName = "Jane" },
		func(u *domain.User) { u.LastName = "Doe" },
		func(u *domain.User) { u.Email = "jane@example.com" },
		func(u *domain.User) { u.Phone = "+5511999990000" },
		func(u *domain.User) { u.Role = domain.RoleJobSeeker },
		func(u *domain.User) { u.Country = "India" },
		func(u *domain.User) { u.City = "Mumbai" },
		func(u *domain.User) { u.ProfileImage = strPtr("http://blob/x.jpg") },
	}

	for i, step := range steps {
		step(&profile)
		score := validation.ComputeCompletion(profile)
		assert.GreaterOrEqual(t, score, prev, "passo %d reduziu a pontuação", i)
		prev = score
	}
	assert.Equal(t, 100, prev)
}

// TestComputeCompletion_BlankFieldsDontCount testa que valores só de espaço
// não pontuam.
func TestComputeCompletion_BlankFieldsDontCount(t *testing.T) {
	profile := domain.User{
		FirstName: "   ",
		LastName:  "\t",
		Email:     "jane@example.com",
	}

	assert.Equal(t, 20, validation.ComputeCompletion(profile))
}

// TestDebouncer_OnlyLastEditFires testa que edições em rajada geram uma única
// validação.
func TestDebouncer_OnlyLastEditFires(t *testing.T) {
	d := validation.NewDebouncer(20 * time.Millisecond)

	var fired int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

// TestDebouncer_Cancel testa que o cancelamento impede o disparo pendente.
func TestDebouncer_Cancel(t *testing.T) {
	d := validation.NewDebouncer(20 * time.Millisecond)

	var fired int32
	d.Trigger(func() { atomic.AddInt32(&fired, 1) })
	d.Cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}
