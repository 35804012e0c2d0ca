package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sombhu2022/agri-farm-sub000/pkg/notify"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		subject string
		content string
		data    map[string]any
		wantSub string
		wantBod string
	}{
		{
			name:    "basic substitution",
			subject: "Hello {{name}}",
			content: "Welcome to {{farm}}, {{name}}!",
			data:    map[string]any{"name": "Ana", "farm": "Greenfields"},
			wantSub: "Hello Ana",
			wantBod: "Welcome to Greenfields, Ana!",
		},
		{
			name:    "whitespace inside braces tolerated",
			content: "Price: {{ price }} per {{  unit  }}",
			data:    map[string]any{"price": "120", "unit": "quintal"},
			wantBod: "Price: 120 per quintal",
		},
		{
			name:    "missing key stays verbatim",
			content: "Hi {{name}}, your code is {{code}}",
			data:    map[string]any{"name": "Raj"},
			wantBod: "Hi Raj, your code is {{code}}",
		},
		{
			name:    "empty data leaves everything verbatim",
			content: "Hi {{name}}",
			data:    nil,
			wantBod: "Hi {{name}}",
		},
		{
			name:    "repeated placeholder replaced everywhere",
			content: "{{crop}} and more {{crop}}",
			data:    map[string]any{"crop": "wheat"},
			wantBod: "wheat and more wheat",
		},
		{
			name:    "numeric values render plainly",
			content: "Temperature {{temp}} at humidity {{hum}}",
			data:    map[string]any{"temp": 31.5, "hum": 80},
			wantBod: "Temperature 31.5 at humidity 80",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := notify.Render(&notify.Template{Subject: tt.subject, Content: tt.content}, tt.data)
			assert.Equal(t, tt.wantSub, got.Subject)
			assert.Equal(t, tt.wantBod, got.Body)
		})
	}
}

func TestTemplateLint(t *testing.T) {
	t.Parallel()

	tmpl := notify.Template{
		Subject:   "Alert for {{crop}}",
		Content:   "{{crop}} price moved by {{delta}} in {{market}}",
		Variables: []string{"crop", "delta"},
	}

	undeclared := tmpl.Lint()
	assert.Equal(t, []string{"market"}, undeclared)

	tmpl.Variables = append(tmpl.Variables, "market")
	assert.Empty(t, tmpl.Lint())
}
