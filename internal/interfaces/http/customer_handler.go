package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clientes-admin/internal/application/dto"
	"github.com/jhoicas/clientes-admin/internal/application/usecase"
)

// CustomerHandler maneja las peticiones HTTP de clientes.
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// List godoc
// @Summary      Listar clientes
// @Description  Sin parámetros devuelve todos los clientes (ID descendente). Con search, page o pageSize devuelve la página filtrada.
// @Tags         customers
// @Produce      json
// @Param        search    query  string  false  "Texto a buscar en nombre, apellido, email, teléfono o razón social"
// @Param        page      query  int     false  "Página (base 0)"  default(0)
// @Param        pageSize  query  int     false  "Tamaño de página (5, 10, 20, 50)"  default(5)
// @Success      200  {array}   dto.CustomerResponse
// @Success      200  {object}  dto.CustomerPageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	search, hasSearch := queryValue(c, "search")
	pageStr, hasPage := queryValue(c, "page")
	sizeStr, hasSize := queryValue(c, "pageSize")
	if !hasSearch && !hasPage && !hasSize {
		list, err := h.uc.List(ctx)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(list)
	}

	page, err := atoiDefault(pageStr, 0)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAGE", Message: "page debe ser un entero"})
	}
	size, err := atoiDefault(sizeStr, 0)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PAGE_SIZE", Message: "pageSize debe ser un entero"})
	}
	out, err := h.uc.Page(ctx, search, page, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente por ID
// @Tags         customers
// @Produce      json
// @Param        id   path  int  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Location(fmt.Sprintf("/api/customers/%d", out.ID))
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Description  Si el body incluye id debe coincidir con el de la ruta.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "ID del cliente"
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cliente
// @Tags         customers
// @Param        id   path  int  true  "ID del cliente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary      Exportar clientes
// @Tags         customers
// @Produce      application/json,application/yaml,application/pdf
// @Param        format  query  string  false  "json, yaml, xlsx o pdf"  default(json)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/customers/export [get]
func (h *CustomerHandler) Export(c *fiber.Ctx) error {
	file, err := h.uc.Export(c.UserContext(), c.Query("format", "json"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(file.Name)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Data)
}

// Import godoc
// @Summary      Importar clientes desde XLSX
// @Description  Primera fila = encabezados (name, surname, email, phone, type, companyName). Las filas inválidas se omiten.
// @Tags         customers
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla .xlsx"
// @Success      200   {object}  dto.ImportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers/import [post]
func (h *CustomerHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "el campo file es requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	defer f.Close()

	out, err := h.uc.ImportSheet(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id debe ser un entero positivo"})
}

func queryValue(c *fiber.Ctx, key string) (string, bool) {
	args := c.Context().QueryArgs()
	if !args.Has(key) {
		return "", false
	}
	return string(args.Peek(key)), true
}

func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
