package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Arthurvroum/odoo-ci/internal/domain"
)

// SourceEnsurer populates a directory with the enterprise sources for a
// version. Satisfied by enterprise.Manager.
type SourceEnsurer interface {
	Ensure(ctx context.Context, version, token, destDir string) error
}

// Generator renders one instance directory: docker-compose.yml, odoo.conf,
// README, data directories and (for enterprise) the extracted sources.
type Generator struct {
	outputDir  string
	enterprise SourceEnsurer

	// Warn receives non-fatal findings (missing addons dir, fallback paths).
	Warn func(msg string)
}

func NewGenerator(outputDir string, enterprise SourceEnsurer) *Generator {
	return &Generator{outputDir: outputDir, enterprise: enterprise}
}

type composeService struct {
	Image       string   `yaml:"image"`
	DependsOn   []string `yaml:"depends_on,omitempty"`
	Ports       []string `yaml:"ports,omitempty"`
	Environment []string `yaml:"environment,omitempty"`
	Command     string   `yaml:"command,omitempty"`
	Volumes     []string `yaml:"volumes"`
	Restart     string   `yaml:"restart"`
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
	Volumes  map[string]any            `yaml:"volumes"`
}

// Generate provisions the instance directory for req and returns its
// record. Enterprise requests need a token or a pre-downloaded addons
// path; when the download fails and an addons path exists, the path is
// mounted instead.
func (g *Generator) Generate(ctx context.Context, req domain.Request) (*domain.Instance, error) {
	version := domain.NormalizeVersion(req.Version)
	isEE := req.Edition == domain.Enterprise

	name := domain.InstanceName(version, req.Edition)
	inst := filepath.Join(g.outputDir, name)

	dirs := []string{
		filepath.Join(inst, "odoo-data", "addons"),
		filepath.Join(inst, "odoo-data", "etc"),
		filepath.Join(inst, "odoo-data", "filestore"),
		filepath.Join(inst, "postgresql"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, err
		}
	}

	if err := writeOdooConf(filepath.Join(inst, "odoo-data", "etc"), isEE); err != nil {
		return nil, err
	}

	vols := []string{
		"odoo-data:/var/lib/odoo",
		"./odoo-data/etc:/etc/odoo",
		"./odoo-data/addons:/mnt/extra-addons:rw",
	}

	if isEE {
		extra, err := g.prepareEnterprise(ctx, version, req, inst)
		if err != nil {
			return nil, err
		}
		vols = append(vols, extra...)
	} else if req.AddonsPath != "" {
		if mount, ok := externalAddonsMount(req.AddonsPath); ok {
			vols = append(vols, mount)
		} else {
			g.warnf("external addons path %q does not exist", req.AddonsPath)
		}
	}

	if err := g.writeCompose(inst, version, req.Port, vols); err != nil {
		return nil, err
	}

	if err := writeReadme(inst, version, string(req.Edition), req.Port); err != nil {
		return nil, err
	}

	return &domain.Instance{
		Name:      name,
		Version:   version,
		Edition:   string(req.Edition),
		Port:      req.Port,
		Path:      inst,
		CreatedAt: time.Now(),
	}, nil
}

// prepareEnterprise downloads/extracts the sources and picks the addons
// mount, mirroring the layout variations seen across releases.
func (g *Generator) prepareEnterprise(ctx context.Context, version string, req domain.Request, inst string) ([]string, error) {
	if req.EnterpriseToken == "" && req.AddonsPath == "" {
		return nil, fmt.Errorf("enterprise edition requires an access token or an addons path")
	}

	enterpriseDir := filepath.Join(inst, "enterprise")
	if err := os.MkdirAll(enterpriseDir, 0755); err != nil {
		return nil, err
	}

	vols := []string{"./enterprise:/mnt/enterprise:ro"}

	if req.EnterpriseToken != "" {
		if err := g.enterprise.Ensure(ctx, version, req.EnterpriseToken, enterpriseDir); err != nil {
			if req.AddonsPath == "" {
				return nil, err
			}
			g.warnf("enterprise download failed (%v), using addons path instead", err)
			if mount, ok := externalAddonsMount(req.AddonsPath); ok {
				return append(vols, mount), nil
			}
			return nil, fmt.Errorf("enterprise download failed and addons path %q does not exist", req.AddonsPath)
		}
		vols = append(vols, g.enterpriseAddonsMount(inst, enterpriseDir))
		return vols, nil
	}

	if mount, ok := externalAddonsMount(req.AddonsPath); ok {
		return append(vols, mount), nil
	}
	return nil, fmt.Errorf("addons path %q does not exist", req.AddonsPath)
}

// enterpriseAddonsMount locates the addons inside an extracted tree:
// odoo/addons first, then top-level modules, then any nested addons dir.
func (g *Generator) enterpriseAddonsMount(inst, enterpriseDir string) string {
	if info, err := os.Stat(filepath.Join(enterpriseDir, "odoo", "addons")); err == nil && info.IsDir() {
		return "./enterprise/odoo/addons:/mnt/custom-addons:rw"
	}

	if manifests, _ := filepath.Glob(filepath.Join(enterpriseDir, "*", "__manifest__.py")); len(manifests) > 0 {
		return "./enterprise:/mnt/custom-addons:rw"
	}

	if nested := findAddonsDir(enterpriseDir); nested != "" {
		rel, err := filepath.Rel(inst, nested)
		if err == nil {
			return "./" + filepath.ToSlash(rel) + ":/mnt/custom-addons:rw"
		}
	}

	g.warnf("no addons directory found in the enterprise archive")
	return "./enterprise:/mnt/custom-addons:rw"
}

func findAddonsDir(root string) string {
	var found string
	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == "addons" {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

func externalAddonsMount(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return abs + ":/mnt/custom-addons:rw", true
}

func (g *Generator) writeCompose(inst, version string, port int, vols []string) error {
	comp := composeFile{
		Services: map[string]composeService{
			"db": {
				Image: "postgres:13",
				Environment: []string{
					"POSTGRES_DB=postgres",
					"POSTGRES_USER=odoo",
					"POSTGRES_PASSWORD=odoo",
				},
				Volumes: []string{"postgres-data:/var/lib/postgresql/data"},
				Restart: "always",
			},
			"odoo": {
				Image:     "odoo:" + version,
				DependsOn: []string{"db"},
				Ports:     []string{fmt.Sprintf("%d:8069", port)},
				Environment: []string{
					"POSTGRES_DB=postgres",
					"POSTGRES_USER=odoo",
					"POSTGRES_PASSWORD=odoo",
					"PGHOST=db",
				},
				Command: "--config=/etc/odoo/odoo.conf",
				Volumes: vols,
				Restart: "always",
			},
		},
		Volumes: map[string]any{
			"odoo-data":     nil,
			"postgres-data": nil,
		},
	}

	data, err := yaml.Marshal(comp)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(inst, "docker-compose.yml"), data, 0644)
}

func (g *Generator) warnf(format string, args ...any) {
	if g.Warn != nil {
		g.Warn(fmt.Sprintf(format, args...))
	}
}
