package reset

import (
	"bytes"
	"fmt"
	"html/template"
)

var resetEmailTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h3>Merhaba {{.Name}},</h3>
    <p>Hesabınız için şifre sıfırlama talebinde bulundunuz.</p>
    <p>Şifrenizi sıfırlamak için aşağıdaki bağlantıya tıklayın:</p>
    <p><a href="{{.ResetURL}}">Şifremi Sıfırla</a></p>
    <p style="word-break: break-all; font-size: 12px;">{{.ResetURL}}</p>
    <p>Bu bağlantı {{.ValidMinutes}} dakika süreyle geçerlidir.</p>
    <p>Eğer bu talebi siz yapmadıysanız, bu e-postayı görmezden gelebilirsiniz.</p>
    <br/>
    <p>{{.AppName}} Ekibi</p>
</body>
</html>
`))

type emailData struct {
	Name         string
	ResetURL     string
	AppName      string
	ValidMinutes int
}

func renderResetEmail(data emailData) (string, error) {
	var buf bytes.Buffer
	if err := resetEmailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render reset email: %w", err)
	}
	return buf.String(), nil
}

// Subject returns the reset email subject line for appName
func Subject(appName string) string {
	return "Şifre Sıfırlama İsteği - " + appName
}
