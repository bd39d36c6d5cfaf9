package mail

import (
	"bytes"
	"html/template"
	"net/url"
)

var (
	validationTpl = template.Must(template.New("validation").Parse(`<p>Hola {{.Name}},</p>
<p>Gracias por registrarte. Confirma tu email en el siguiente enlace (válido durante 1 hora):</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>`))

	resetTpl = template.Must(template.New("reset").Parse(`<p>Hola {{.Name}},</p>
<p>Hemos recibido una solicitud para restablecer tu contraseña. El enlace caduca en 1 hora:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>Si no la has solicitado, ignora este mensaje.</p>`))

	invitationTpl = template.Must(template.New("invitation").Parse(`<p>{{.Inviter}} te ha invitado a unirte a <strong>{{.Company}}</strong>.</p>
<p>Acepta la invitación desde este enlace (válido durante 7 días):</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>`))
)

type templateData struct {
	Name    string
	Inviter string
	Company string
	Link    string
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// link une la URL del frontend con una ruta y el token como query.
func link(base, path, token string) string {
	return base + path + "?token=" + url.QueryEscape(token)
}
