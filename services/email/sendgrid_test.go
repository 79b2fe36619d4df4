package emailsvc

import (
	"net/mail"
	"testing"

	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShinzTer/phys-diary-sub000/core"
)

func Test_sendgridService_prepare(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewSendgridService(conf, nil).(*sendgridService)

	tests := []struct {
		name      string
		msg       core.EmailMessage
		wantCats  []string
		wantTypes []string
		sandbox   bool
	}{
		{
			name: "plain text",
			msg: core.EmailMessage{
				To:          []mail.Address{{Name: "Pupil", Address: "pupil@test.ru"}},
				Cc:          []mail.Address{{Address: "coach@test.ru"}},
				Subject:     "Hello",
				TextContent: "hi",
			},
			wantCats:  []string{"physdiary"},
			wantTypes: []string{"text/plain"},
			sandbox:   true,
		},
		{
			name: "templated",
			msg: core.EmailMessage{
				To:           []mail.Address{{Address: "pupil@test.ru"}},
				Bcc:          []mail.Address{{Address: "admin@test.ru"}},
				Subject:      "Password Reset",
				TemplateName: "password_reset",
				TextContent:  "reset",
				HTMLContent:  "<p>reset</p>",
			},
			wantCats:  []string{"physdiary", "password_reset"},
			wantTypes: []string{"text/plain", "text/html"},
			sandbox:   true,
		},
		{
			name: "live",
			msg: core.EmailMessage{
				To:          []mail.Address{{Address: "pupil@test.ru"}},
				Subject:     "Hello",
				TextContent: "hi",
			},
			wantCats:  []string{"physdiary"},
			wantTypes: []string{"text/plain"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := *svc
			s.sandbox = tt.sandbox
			m := s.prepare(tt.msg)

			require.Len(t, m.Personalizations, 1)
			p := m.Personalizations[0]
			assert.Equal(t, "[PhysDiary] "+tt.msg.Subject, p.Subject)
			assert.Len(t, p.To, len(tt.msg.To))
			assert.Len(t, p.CC, len(tt.msg.Cc))
			assert.Len(t, p.BCC, len(tt.msg.Bcc))
			assert.Equal(t, "TEST", p.CustomArgs["env"])

			assert.Equal(t, s.from, m.From)
			assert.Equal(t, tt.wantCats, m.Categories)

			var types []string
			for _, c := range m.Content {
				types = append(types, c.Type)
			}
			assert.Equal(t, tt.wantTypes, types)

			if tt.sandbox {
				require.NotNil(t, m.MailSettings)
				require.NotNil(t, m.MailSettings.SandboxMode)
				assert.Equal(t, sgmail.NewSetting(true), m.MailSettings.SandboxMode)
			} else {
				assert.Nil(t, m.MailSettings)
			}
		})
	}
}
