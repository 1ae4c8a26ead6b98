package compose

import (
	"os"
	"path/filepath"
	"text/template"
)

const communityAddonsPath = "/mnt/extra-addons,/usr/lib/python3/dist-packages/odoo/addons"
const enterpriseAddonsPath = communityAddonsPath + ",/mnt/enterprise,/mnt/custom-addons"

const odooConfTemplate = `[options]
admin_passwd = admin
addons_path = {{ .AddonsPath }}
db_host = db
db_port = 5432
db_user = odoo
db_password = odoo
http_port = 8069
`

func writeOdooConf(etcDir string, isEnterprise bool) error {
	addonsPath := communityAddonsPath
	if isEnterprise {
		addonsPath = enterpriseAddonsPath
	}

	tmpl := template.Must(template.New("odoo.conf").Parse(odooConfTemplate))

	f, err := os.Create(filepath.Join(etcDir, "odoo.conf"))
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, struct{ AddonsPath string }{AddonsPath: addonsPath})
}

const readmeTemplate = `# Odoo {{ .Version }} {{ .Edition }}

## Configuration

This instance runs Odoo {{ .Edition }} {{ .Version }}.

- Port: {{ .Port }}
- Database: PostgreSQL 13
- Enterprise modules directory: ./enterprise/odoo/addons

## Startup

` + "```bash\ndocker compose up -d\n```" + `

## Usage

Open Odoo in your browser at:
http://localhost:{{ .Port }}

Default credentials: admin / admin
`

func writeReadme(inst, version, edition string, port int) error {
	tmpl := template.Must(template.New("README.md").Parse(readmeTemplate))

	f, err := os.Create(filepath.Join(inst, "README.md"))
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, struct {
		Version string
		Edition string
		Port    int
	}{
		Version: version,
		Edition: capitalize(edition),
		Port:    port,
	})
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
