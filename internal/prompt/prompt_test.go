package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/prompt"
)

func TestResolve(t *testing.T) {
	acme := &models.Client{
		BusinessName: "Acme Plumbing",
		Service:      "Drain Cleaning",
		City:         "Austin",
		Areas:        []string{"Round Rock", "Cedar Park"},
	}

	testCases := []struct {
		name     string
		template string
		client   *models.Client
		want     string
	}{
		{
			name:     "all tokens with default tone",
			template: "@Business does @Service in @City near @Areas, tone @Tone",
			client:   acme,
			want:     "Acme Plumbing does Drain Cleaning in Austin near Round Rock, Cedar Park, tone Professional",
		},
		{
			name:     "every occurrence replaced",
			template: "@City @City @City",
			client:   acme,
			want:     "Austin Austin Austin",
		},
		{
			name:     "no areas",
			template: "Areas: [@Areas]",
			client:   &models.Client{City: "Austin"},
			want:     "Areas: []",
		},
		{
			name:     "explicit tone",
			template: "@Tone",
			client:   &models.Client{Tone: "Friendly"},
			want:     "Friendly",
		},
		{
			name:     "tokens are case sensitive",
			template: "@city @CITY @City",
			client:   acme,
			want:     "@city @CITY Austin",
		},
		{
			name:     "unknown tokens pass through",
			template: "@Owner runs @Business",
			client:   acme,
			want:     "@Owner runs Acme Plumbing",
		},
		{
			name:     "substituted values are not expanded again",
			template: "@Business in @City",
			client:   &models.Client{BusinessName: "The @City Shop", City: "Austin"},
			want:     "The @City Shop in Austin",
		},
		{
			name:     "nil client",
			template: "[@Business|@Tone]",
			want:     "[|Professional]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, prompt.Resolve(tc.template, tc.client))
		})
	}
}

func TestResolveDefaultTemplate(t *testing.T) {
	c := &models.Client{
		BusinessName: "Acme Plumbing",
		Service:      "Drain Cleaning",
		City:         "Austin",
		Areas:        []string{"Round Rock", "Cedar Park"},
	}

	for _, template := range []string{"", "   \n\t"} {
		got := prompt.Resolve(template, c)

		assert.Contains(t, got, "Target service: Drain Cleaning")
		assert.Contains(t, got, "City: Austin")
		assert.Contains(t, got, "Areas: Round Rock, Cedar Park")
		assert.Contains(t, got, "Business: Acme Plumbing")
		assert.Contains(t, got, "Tone: Professional")
		assert.Contains(t, got, "Include Drain Cleaning + Austin in headings and copy")

		for _, token := range []string{
			prompt.TokenBusiness, prompt.TokenService, prompt.TokenCity, prompt.TokenAreas, prompt.TokenTone,
		} {
			assert.False(t, strings.Contains(got, token), "token %s left in prompt", token)
		}
	}
}

func TestDefaultTemplateHasEveryToken(t *testing.T) {
	for _, token := range []string{
		prompt.TokenBusiness, prompt.TokenService, prompt.TokenCity, prompt.TokenAreas, prompt.TokenTone,
	} {
		assert.Contains(t, prompt.DefaultTemplate, token)
	}
}

func TestResolveDefaultTemplateFriendlyPlumber(t *testing.T) {
	got := prompt.Resolve("", &models.Client{
		BusinessName: "Acme Plumbing",
		Service:      "plumbing",
		City:         "Denver",
		Areas:        []string{"Aurora", "Lakewood"},
		Tone:         "Friendly",
	})

	for _, want := range []string{"plumbing", "Denver", "Acme Plumbing", "Aurora, Lakewood", "Friendly"} {
		assert.Contains(t, got, want)
	}

	assert.NotContains(t, got, "@Service")
}

func TestResolveKeepsSurroundingText(t *testing.T) {
	template := "<<@Business>> ~@Service~ {@City} (@Areas) [@Tone] 100% @ done"
	c := &models.Client{BusinessName: "B", Service: "S", City: "C", Areas: []string{"A"}, Tone: "T"}

	assert.Equal(t, "<<B>> ~S~ {C} (A) [T] 100% @ done", prompt.Resolve(template, c))
}
