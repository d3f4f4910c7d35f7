// Package cli implementa crmctl: administración de clientes desde la terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jhoicas/clientes-admin/internal/domain/entity"
	"github.com/jhoicas/clientes-admin/internal/infrastructure/store"
	"github.com/jhoicas/clientes-admin/pkg/config"
	"github.com/jhoicas/clientes-admin/pkg/logger"
)

var version = "dev"

// SetVersion versión mostrada por `crmctl version`.
func SetVersion(v string) {
	version = v
}

// runtime estado compartido por los comandos; se abre en PersistentPreRunE.
type runtime struct {
	v      *viper.Viper
	cfg    *config.Config
	log    *logger.Logger
	store  *store.Store
	policy entity.ValidationPolicy

	outMu sync.Mutex
}

// flagKeys flag de cobra -> clave de configuración.
var flagKeys = map[string]string{
	"store":      "STORE_KIND",
	"seed":       "STORE_SEED",
	"local-path": "STORE_LOCAL_PATH",
	"slot":       "STORE_SLOT",
	"redis-addr": "REDIS_ADDR",
	"remote-url": "STORE_REMOTE_URL",
	"timeout":    "STORE_REMOTE_TIMEOUT",
	"policy":     "ADMIN_VALIDATION_POLICY",
	"log-level":  "LOG_LEVEL",
}

// NewRootCmd construye el árbol de comandos.
func NewRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *runtime) {
	rt := &runtime{v: viper.New()}
	rt.v.SetDefault("LOG_LEVEL", "warn")

	root := &cobra.Command{
		Use:   "crmctl",
		Short: "Administración de clientes",
		Long: `crmctl lista, busca, crea, edita, elimina, exporta e importa clientes
sobre el almacén configurado (memoria, SQLite local, Redis, API remota o PostgreSQL).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			return rt.open(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("store", config.StoreMemory, "almacén: memory | local | redis | remote | postgres")
	pf.Bool("seed", false, "memory: cargar un cliente de ejemplo")
	pf.String("local-path", "./data/clientes.db", "local: archivo SQLite")
	pf.String("slot", "customers", "local/redis: nombre del slot")
	pf.String("redis-addr", "localhost:6379", "redis: dirección host:puerto")
	pf.String("remote-url", "http://localhost:8080", "remote: URL base de la API")
	pf.String("timeout", "10s", "remote: timeout por petición")
	pf.String("policy", string(entity.DefaultValidationPolicy), "validación: minimal | strict | typed")
	pf.String("log-level", "warn", "nivel de log: debug | info | warn | error")
	for name, key := range flagKeys {
		_ = rt.v.BindPFlag(key, pf.Lookup(name))
	}

	root.AddCommand(
		newListCmd(rt),
		newGetCmd(rt),
		newAddCmd(rt),
		newEditCmd(rt),
		newDeleteCmd(rt),
		newExportCmd(rt),
		newImportCmd(rt),
		newTUICmd(rt),
		&cobra.Command{
			Use:   "version",
			Short: "Muestra la versión",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "crmctl %s\n", version)
			},
		},
	)
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return rt.close()
	}
	return root, rt
}

// Run ejecuta crmctl con los argumentos dados y libera el almacén aunque el comando falle.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	root, rt := newRoot()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.ExecuteContext(ctx)
	if cerr := rt.close(); err == nil {
		err = cerr
	}
	return err
}

// Execute punto de entrada de cmd/crmctl.
func Execute(ctx context.Context) error {
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
