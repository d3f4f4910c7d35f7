package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/clientes-admin/internal/interfaces/tui"
)

func newExportCmd(rt *runtime) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta todos los clientes (json, yaml, xlsx, pdf)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := rt.useCase().Export(cmd.Context(), format)
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(file.Data)
				return err
			}
			if out == "" {
				out = file.Name
			}
			if err := os.WriteFile(out, file.Data, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exportado: %s (%d bytes)\n", out, len(file.Data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json | yaml | xlsx | pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "archivo de salida (\"-\" = stdout; vacío = nombre generado)")
	return cmd
}

func newImportCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.xlsx",
		Short: "Importa clientes desde una planilla; las filas inválidas se omiten",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := rt.useCase().ImportSheet(cmd.Context(), f)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Importados: %d, omitidos: %d\n", len(res.Created), len(res.Skipped))
			for _, s := range res.Skipped {
				fmt.Fprintf(w, "  fila %d: %s\n", s.Row, s.Reason)
			}
			return nil
		},
	}
}

func newTUICmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Pantalla interactiva de administración",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.session(nil, rt.cfg.Admin.ConfirmDelete)
			defer s.Close()
			return tui.Run(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
