package service

import (
	"bytes"
	"html/template"
	"time"
)

const (
	welcomeSubject = "Your access credentials"
	resetSubject   = "Your password recovery code"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px;">
    <h2 style="color: #0056b3;">Welcome!</h2>
    <p>Hello, <strong>{{.Nome}}</strong>,</p>
    <p>Your account has been created. These are your access credentials:</p>
    <div style="background-color: #f9f9f9; padding: 15px; border-left: 4px solid #0056b3; margin: 20px 0;">
      <p><strong>Username:</strong> {{.Username}}</p>
      <p><strong>Temporary password:</strong> {{.Password}}</p>
    </div>
    <p style="color: #d9534f;"><strong>Important:</strong> you will be asked to change this password on your first login.</p>
  </div>
</body>
</html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 500px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; text-align: center;">
    <h2 style="color: #0056b3;">Password recovery</h2>
    <p>Use the code below in the application to set a new password:</p>
    <div style="background-color: #f4f4f4; padding: 15px; margin: 20px 0; border-radius: 5px;">
      <h1 style="margin: 0; letter-spacing: 5px; color: #333;">{{.Code}}</h1>
    </div>
    <p style="font-size: 12px; color: #888;">This code expires in {{.Minutes}} minutes.</p>
  </div>
</body>
</html>`))

func renderWelcomeEmail(nome, username, password string) (string, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, struct {
		Nome, Username, Password string
	}{nome, username, password})
	return buf.String(), err
}

func renderResetEmail(code string, ttl time.Duration) (string, error) {
	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, struct {
		Code    string
		Minutes int
	}{code, int(ttl.Minutes())})
	return buf.String(), err
}
