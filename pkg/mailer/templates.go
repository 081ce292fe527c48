package mailer

import (
	"bytes"
	"errors"
	"html/template"
	texttemplate "text/template"
)

var ErrTemplateContext = errors.New("invalid template context")

// Template is a named pair of HTML and plain-text bodies sharing a context.
type Template struct {
	Name    string
	Subject string
	html    *template.Template
	text    *texttemplate.Template
}

func NewTemplate(name, subject, htmlBody, textBody string) (*Template, error) {
	htmlTmpl, err := template.New(name + "_html").Parse(htmlBody)
	if err != nil {
		return nil, err
	}

	var textTmpl *texttemplate.Template
	if textBody != "" {
		textTmpl, err = texttemplate.New(name + "_text").Parse(textBody)
		if err != nil {
			return nil, err
		}
	}

	return &Template{Name: name, Subject: subject, html: htmlTmpl, text: textTmpl}, nil
}

func (t *Template) Render(context any) (string, string, error) {
	if context == nil {
		return "", "", ErrTemplateContext
	}

	var htmlBuf bytes.Buffer
	if err := t.html.Execute(&htmlBuf, context); err != nil {
		return "", "", err
	}

	var textBuf bytes.Buffer
	if t.text != nil {
		if err := t.text.Execute(&textBuf, context); err != nil {
			return "", "", err
		}
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// WelcomeContext feeds the signup welcome email.
type WelcomeContext struct {
	AppName  string
	Username string
}

func WelcomeTemplate() (*Template, error) {
	const htmlBody = `<html><body>
<h1>Welcome to {{.AppName}}, {{.Username}}!</h1>
<p>Your account is ready. Log in to start reading, posting and commenting.</p>
</body></html>`
	const textBody = `Welcome to {{.AppName}}, {{.Username}}!

Your account is ready. Log in to start reading, posting and commenting.`

	return NewTemplate("welcome", "Welcome aboard", htmlBody, textBody)
}

// NewsletterContext feeds the periodic newsletter.
type NewsletterContext struct {
	AppName  string
	Headline string
	Articles []NewsletterArticle
}

type NewsletterArticle struct {
	Title string
	Intro string
}

func NewsletterTemplate() (*Template, error) {
	const htmlBody = `<html><body>
<h1>{{.Headline}}</h1>
<p>The latest from {{.AppName}}:</p>
<ul>
{{range .Articles}}<li><strong>{{.Title}}</strong>: {{.Intro}}</li>
{{end}}</ul>
</body></html>`
	const textBody = `{{.Headline}}

The latest from {{.AppName}}:
{{range .Articles}}- {{.Title}}: {{.Intro}}
{{end}}`

	return NewTemplate("newsletter", "Your newsletter", htmlBody, textBody)
}
