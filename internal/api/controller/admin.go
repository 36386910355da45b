package controller

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/keuda/internal/domain/dto"
	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/logger"
)

const (
	mimeXLSX       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	backupFilename = "data.xlsx"

	formFieldFile    = "file"
	formFieldVersion = "version"
)

// ReloadDataset drops the cached dataset and reads the source again.
func (c *Controller) ReloadDataset(ctx echo.Context) error {
	ds, err := c.service.Reload(ctx.Request().Context())
	if err != nil {
		return err
	}

	logger.Infof(ctx.Request().Context(), "dataset reloaded from %s, version %s", ds.Source, ds.Version)
	return ctx.JSON(http.StatusOK, dto.NewReloadResponse(ds))
}

func (c *Controller) GetDatasetSnapshot(ctx echo.Context) error {
	wb, err := c.editor.Snapshot(ctx.Request().Context())
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dto.NewWorkbookResponse(wb))
}

func (c *Controller) GetDatasetBackup(ctx echo.Context) error {
	content, version, err := c.editor.Backup(ctx.Request().Context())
	if err != nil {
		return err
	}

	ctx.Response().Header().Set("ETag", `"`+version+`"`)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", backupFilename))
	return ctx.Blob(http.StatusOK, mimeXLSX, content)
}

// PutDataset replaces the whole workbook with a multipart upload: the xlsx file in
// "file" and the version it was based on in "version".
func (c *Controller) PutDataset(ctx echo.Context) error {
	version := ctx.FormValue(formFieldVersion)
	if version == "" {
		return fmt.Errorf("%w: %s is required", constants.ErrBadRequest, formFieldVersion)
	}

	fh, err := ctx.FormFile(formFieldFile)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", constants.ErrBadRequest, formFieldFile, err)
	}
	if c.uploadLimit > 0 && fh.Size > c.uploadLimit {
		return fmt.Errorf("%w: %d bytes, limit is %d", constants.ErrPayloadTooLarge, fh.Size, c.uploadLimit)
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	newVersion, err := c.editor.ReplaceWorkbook(ctx.Request().Context(), content, version)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dto.VersionResponse{Version: newVersion})
}

func (c *Controller) PutDatasetTable(ctx echo.Context) error {
	var req dto.TableRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	newVersion, err := c.editor.ReplaceTable(ctx.Request().Context(), req.RawTable(), req.Version)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dto.VersionResponse{Version: newVersion})
}
