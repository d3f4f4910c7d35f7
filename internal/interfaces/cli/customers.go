package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/clientes-admin/internal/application/admin"
	"github.com/jhoicas/clientes-admin/internal/domain/entity"
)

func newListCmd(rt *runtime) *cobra.Command {
	var (
		search   string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista clientes (más recientes primero)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.session(cmd.ErrOrStderr(), false)
			defer s.Close()
			if err := s.Reload(cmd.Context()); err != nil {
				return err
			}
			lv := s.List()
			if cmd.Flags().Changed("page-size") {
				if err := lv.SetPageSize(pageSize); err != nil {
					return fmt.Errorf("--page-size %d: %w (admitidos: %v)", pageSize, err, admin.PageSizes)
				}
			}
			lv.SetSearch(search)
			if page > 1 {
				lv.SetPage(page - 1)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPage(lv.Current(), search))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "texto a buscar en nombre, apellido, email, teléfono o razón social")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "página (base 1)")
	cmd.Flags().IntVar(&pageSize, "page-size", admin.DefaultPageSize, "clientes por página (5, 10, 20, 50)")
	return cmd
}

func newGetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Muestra un cliente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := rt.store.Repo.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCustomer(c))
			return nil
		},
	}
}

// formFlags flags de campos compartidos por add y edit.
type formFlags struct {
	values map[string]*string
}

func bindFormFlags(cmd *cobra.Command) *formFlags {
	ff := &formFlags{values: map[string]*string{}}
	bind := func(field, flag, usage string) {
		ff.values[field] = cmd.Flags().String(flag, "", usage)
	}
	bind(admin.FieldName, "name", "nombre")
	bind(admin.FieldSurname, "surname", "apellido")
	bind(admin.FieldEmail, "email", "email")
	bind(admin.FieldPhone, "phone", "teléfono")
	bind(admin.FieldType, "type", "individual | corporate")
	bind(admin.FieldCompanyName, "company", "razón social (sólo corporate)")
	return ff
}

var flagOfField = map[string]string{
	admin.FieldName:        "name",
	admin.FieldSurname:     "surname",
	admin.FieldEmail:       "email",
	admin.FieldPhone:       "phone",
	admin.FieldType:        "type",
	admin.FieldCompanyName: "company",
}

// apply copia al formulario sólo los flags indicados; el tipo va antes que la razón social.
func (ff *formFlags) apply(cmd *cobra.Command, form *admin.EditForm) error {
	for _, field := range []string{
		admin.FieldType, admin.FieldName, admin.FieldSurname,
		admin.FieldEmail, admin.FieldPhone, admin.FieldCompanyName,
	} {
		if !cmd.Flags().Changed(flagOfField[field]) {
			continue
		}
		if err := form.Set(field, *ff.values[field]); err != nil {
			return err
		}
	}
	return nil
}

// save guarda el formulario e informa los errores de validación por campo.
func save(cmd *cobra.Command, s *admin.Session) error {
	c, err := s.Save(cmd.Context())
	var fieldErrs entity.FieldErrors
	if errors.As(err, &fieldErrs) {
		fmt.Fprintln(cmd.ErrOrStderr(), renderFieldErrors(fieldErrs))
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderCustomer(c))
	return nil
}

func newAddCmd(rt *runtime) *cobra.Command {
	var ff *formFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Agrega un cliente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rt.session(cmd.ErrOrStderr(), false)
			defer s.Close()
			s.OpenCreate()
			if err := ff.apply(cmd, s.Form()); err != nil {
				return err
			}
			return save(cmd, s)
		},
	}
	ff = bindFormFlags(cmd)
	return cmd
}

func newEditCmd(rt *runtime) *cobra.Command {
	var ff *formFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edita un cliente; los campos no indicados conservan su valor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s := rt.session(cmd.ErrOrStderr(), false)
			defer s.Close()
			if err := s.OpenEdit(cmd.Context(), id); err != nil {
				return err
			}
			if err := ff.apply(cmd, s.Form()); err != nil {
				return err
			}
			return save(cmd, s)
		},
	}
	ff = bindFormFlags(cmd)
	return cmd
}

func newDeleteCmd(rt *runtime) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Elimina un cliente (pide confirmación salvo --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s := rt.session(cmd.ErrOrStderr(), !yes)
			defer s.Close()
			if err := s.OpenEdit(cmd.Context(), id); err != nil {
				return err
			}
			if err := s.RequestDelete(cmd.Context()); err != nil {
				return err
			}

			n, ok := s.Notifier().Current()
			if !ok || n.Mode != admin.ModeConfirm {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s [s = %s / N = %s] ", n.Message, n.ConfirmText, n.CancelText)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if accepted(answer) {
				return s.Notifier().Accept()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelado.")
			return s.Notifier().Cancel()
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "eliminar sin confirmar")
	return cmd
}

func accepted(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido %q: debe ser un entero positivo", s)
	}
	return id, nil
}
