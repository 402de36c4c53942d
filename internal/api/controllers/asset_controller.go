package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/fasthttp/router"
	"github.com/pagecraft/pagecraft/internal/api/authz"
	"github.com/pagecraft/pagecraft/internal/api/response"
	"github.com/pagecraft/pagecraft/internal/perrors"
	"github.com/pagecraft/pagecraft/internal/services"
	asset2 "github.com/pagecraft/pagecraft/internal/services/asset"
	"github.com/valyala/fasthttp"
)

func RegisterAssetRoutes(r *router.Router, svc *services.Services, resolver *authz.Resolver) {
	read := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(readerRoles...)}
	write := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(editorRoles...)}
	remove := []middleware{resolver.Required, resolver.RequireTenant, resolver.RequireRoles(adminRoles...)}

	// Upload a file as multipart form data under the "file" field
	r.POST("/api/assets/upload", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		header, err := ctx.FormFile("file")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Missing file upload", err))
			return
		}

		f, err := header.Open()
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Unreadable file upload", err))
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, asset2.MaxUploadSize+1))
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to read upload", err))
			return
		}

		created, err := svc.Asset.Upload(stdCtx, rc.TenantID, rc.UserID(), &asset2.UploadRequest{
			OriginalName: header.Filename,
			MimeType:     header.Header.Get("Content-Type"),
			Data:         data,
		})
		if err != nil {
			switch {
			case errors.Is(err, asset2.ErrFileRequired),
				errors.Is(err, asset2.ErrFileTooLarge),
				errors.Is(err, asset2.ErrUnsupportedType):
				response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest(err.Error(), err))
			default:
				response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to upload asset", err))
			}
			return
		}

		response.WriteJSON(ctx, http.StatusCreated, created)
	}, write...))

	// List assets
	r.GET("/api/assets", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		assets, err := svc.Asset.List(stdCtx, rc.TenantID)
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to list assets", err))
			return
		}

		response.WriteJSON(ctx, http.StatusOK, assets)
	}, read...))

	// Delete asset and its stored file
	r.DELETE("/api/assets/{id}", chain(func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		rc := authz.FromRequest(ctx)

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid asset id", err))
			return
		}

		if err := svc.Asset.Delete(stdCtx, rc.TenantID, id); err != nil {
			if errors.Is(err, asset2.ErrAssetNotFound) {
				response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Asset not found", err))
				return
			}
			response.WriteError(ctx, stdCtx, perrors.NewErrInternalServerError("Failed to delete asset", err))
			return
		}

		response.NoContent(ctx)
	}, remove...))

	// Serve stored files. Stored names are random uuids, so this is public.
	r.GET("/api/assets/files/{tenantId}/{fileName}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		tenantID, err := pathParam(ctx, "tenantId")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid asset path", err))
			return
		}

		fileName, err := pathParam(ctx, "fileName")
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrBadRequest("Invalid asset path", err))
			return
		}

		path, err := svc.Asset.FilePath(filepath.Join(tenantID, fileName))
		if err != nil {
			response.WriteError(ctx, stdCtx, perrors.NewErrNotFound("Asset not found", err))
			return
		}

		fasthttp.ServeFile(ctx, path)
	})
}
