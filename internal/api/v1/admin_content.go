package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/vitrinhq/vitrin/internal/domain"
	"github.com/vitrinhq/vitrin/internal/entitlement"
)

type CreatePageInput struct {
	Body struct {
		Slug        string `json:"slug" minLength:"1" maxLength:"255" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-safe slug; 'home' is the home composition"`
		Title       string `json:"title,omitempty" maxLength:"255"`
		Content     string `json:"content,omitempty" doc:"Page body"`
		IsPublished bool   `json:"is_published"`
	}
}

type PageOutput struct {
	Body *domain.Page
}

type ListPagesOutput struct {
	Body []*domain.Page
}

type UpdatePageInput struct {
	ID   string `path:"id" format:"uuid" doc:"Page id"`
	Body struct {
		Slug        string `json:"slug" minLength:"1" maxLength:"255" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$"`
		Title       string `json:"title,omitempty" maxLength:"255"`
		Content     string `json:"content,omitempty"`
		IsPublished bool   `json:"is_published"`
	}
}

func RegisterAdminPageRoutes(api huma.API, svc *Services) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-pages",
		Method:      http.MethodGet,
		Path:        "/admin/pages",
		Summary:     "List all pages including drafts",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*ListPagesOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		pages, err := svc.Store.Pages().ListAll(ctx, tid)
		if err != nil {
			return nil, mapError("failed to list pages", err)
		}
		return &ListPagesOutput{Body: pages}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-create-page",
		Method:      http.MethodPost,
		Path:        "/admin/pages",
		Summary:     "Create a page; static pages count against the plan's page limit",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *CreatePageInput) (*PageOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		// The home composition page does not consume the static-page budget.
		if input.Body.Slug != domain.HomeSlug {
			count, err := svc.Store.Pages().CountStatic(ctx, tid)
			if err != nil {
				return nil, mapError("failed to count pages", err)
			}
			if err := svc.Gate.CheckLimit(ctx, tid, entitlement.ResourceStaticPages, count); err != nil {
				return nil, mapError("page limit reached", err)
			}
		}

		now := time.Now()
		p := &domain.Page{
			ID:          uuid.New(),
			TenantID:    tid,
			Slug:        input.Body.Slug,
			Title:       input.Body.Title,
			Content:     input.Body.Content,
			IsPublished: input.Body.IsPublished,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := svc.Store.Pages().Create(ctx, p); err != nil {
			return nil, mapError("failed to create page", err)
		}

		publishChange(ctx, svc, "pages", domain.ChangeInsert, tid, map[string]any{"slug": p.Slug})
		return &PageOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-update-page",
		Method:      http.MethodPut,
		Path:        "/admin/pages/{id}",
		Summary:     "Update a page",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *UpdatePageInput) (*PageOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid page id")
		}

		p := &domain.Page{
			ID:          id,
			TenantID:    tid,
			Slug:        input.Body.Slug,
			Title:       input.Body.Title,
			Content:     input.Body.Content,
			IsPublished: input.Body.IsPublished,
		}

		if err := svc.Store.Pages().Update(ctx, p); err != nil {
			return nil, mapError("failed to update page", err)
		}

		publishChange(ctx, svc, "pages", domain.ChangeUpdate, tid, map[string]any{"slug": p.Slug})
		return &PageOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-delete-page",
		Method:      http.MethodDelete,
		Path:        "/admin/pages/{id}",
		Summary:     "Delete a page",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *DeleteByIDInput) (*struct{}, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid page id")
		}

		// Fetch first so the delete event can carry the slug for routing.
		var slug string
		pages, err := svc.Store.Pages().ListAll(ctx, tid)
		if err == nil {
			for _, p := range pages {
				if p.ID == id {
					slug = p.Slug
					break
				}
			}
		}

		if err := svc.Store.Pages().Delete(ctx, tid, id); err != nil {
			return nil, mapError("failed to delete page", err)
		}

		publishChange(ctx, svc, "pages", domain.ChangeDelete, tid, map[string]any{"slug": slug})
		return nil, nil
	})
}

type CreateMenuItemInput struct {
	Body struct {
		Label        string `json:"label" minLength:"1" maxLength:"100" doc:"Menu label"`
		URL          string `json:"url" minLength:"1" maxLength:"2048" doc:"Link target"`
		IsVisible    bool   `json:"is_visible"`
		DisplayOrder int    `json:"display_order"`
	}
}

type MenuItemOutput struct {
	Body *domain.MenuItem
}

type ListMenuItemsOutput struct {
	Body []*domain.MenuItem
}

type UpdateMenuItemInput struct {
	ID   string `path:"id" format:"uuid" doc:"Menu item id"`
	Body struct {
		Label        string `json:"label" minLength:"1" maxLength:"100"`
		URL          string `json:"url" minLength:"1" maxLength:"2048"`
		IsVisible    bool   `json:"is_visible"`
		DisplayOrder int    `json:"display_order"`
	}
}

type UpsertNavbarInput struct {
	Body struct {
		Style      string `json:"style,omitempty" maxLength:"50"`
		LogoURL    string `json:"logo_url,omitempty" maxLength:"2048"`
		ShowSearch bool   `json:"show_search"`
	}
}

type NavbarOutput struct {
	Body *domain.NavbarConfig
}

type UpsertProfileInput struct {
	Body struct {
		SiteTitle    string `json:"site_title,omitempty" maxLength:"255"`
		Description  string `json:"description,omitempty" maxLength:"1024"`
		Theme        string `json:"theme,omitempty" maxLength:"50"`
		FaviconURL   string `json:"favicon_url,omitempty" maxLength:"2048"`
		ContactEmail string `json:"contact_email,omitempty" format:"email"`
	}
}

type ProfileOutput struct {
	Body *domain.SiteProfile
}

func RegisterAdminNavigationRoutes(api huma.API, svc *Services) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-menu-items",
		Method:      http.MethodGet,
		Path:        "/admin/menu-items",
		Summary:     "List all menu items including hidden",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*ListMenuItemsOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		items, err := svc.Store.MenuItems().ListAll(ctx, tid)
		if err != nil {
			return nil, mapError("failed to list menu items", err)
		}
		return &ListMenuItemsOutput{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-create-menu-item",
		Method:      http.MethodPost,
		Path:        "/admin/menu-items",
		Summary:     "Create a menu item",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *CreateMenuItemInput) (*MenuItemOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		m := &domain.MenuItem{
			ID:           uuid.New(),
			TenantID:     tid,
			Label:        input.Body.Label,
			URL:          input.Body.URL,
			IsVisible:    input.Body.IsVisible,
			DisplayOrder: input.Body.DisplayOrder,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := svc.Store.MenuItems().Create(ctx, m); err != nil {
			return nil, mapError("failed to create menu item", err)
		}

		publishChange(ctx, svc, "menu_items", domain.ChangeInsert, tid, nil)
		return &MenuItemOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-update-menu-item",
		Method:      http.MethodPut,
		Path:        "/admin/menu-items/{id}",
		Summary:     "Update a menu item",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *UpdateMenuItemInput) (*MenuItemOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid menu item id")
		}

		m := &domain.MenuItem{
			ID:           id,
			TenantID:     tid,
			Label:        input.Body.Label,
			URL:          input.Body.URL,
			IsVisible:    input.Body.IsVisible,
			DisplayOrder: input.Body.DisplayOrder,
		}

		if err := svc.Store.MenuItems().Update(ctx, m); err != nil {
			return nil, mapError("failed to update menu item", err)
		}

		publishChange(ctx, svc, "menu_items", domain.ChangeUpdate, tid, nil)
		return &MenuItemOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-delete-menu-item",
		Method:      http.MethodDelete,
		Path:        "/admin/menu-items/{id}",
		Summary:     "Delete a menu item",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *DeleteByIDInput) (*struct{}, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid menu item id")
		}

		if err := svc.Store.MenuItems().Delete(ctx, tid, id); err != nil {
			return nil, mapError("failed to delete menu item", err)
		}

		publishChange(ctx, svc, "menu_items", domain.ChangeDelete, tid, nil)
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-upsert-navbar",
		Method:      http.MethodPut,
		Path:        "/admin/navbar",
		Summary:     "Replace the navbar configuration",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *UpsertNavbarInput) (*NavbarOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		c := &domain.NavbarConfig{
			TenantID:   tid,
			Style:      input.Body.Style,
			LogoURL:    input.Body.LogoURL,
			ShowSearch: input.Body.ShowSearch,
		}

		if err := svc.Store.NavbarConfigs().Upsert(ctx, c); err != nil {
			return nil, mapError("failed to save navbar config", err)
		}

		publishChange(ctx, svc, "navbar_config", domain.ChangeUpdate, tid, nil)
		return &NavbarOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "admin-upsert-profile",
		Method:      http.MethodPut,
		Path:        "/admin/profile",
		Summary:     "Replace the site branding profile",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *UpsertProfileInput) (*ProfileOutput, error) {
		tid, err := requireTenantID(ctx)
		if err != nil {
			return nil, err
		}

		// Theme selection is a tier feature, not a numeric limit: no
		// override can unlock it.
		if input.Body.Theme != "" && input.Body.Theme != "default" {
			snap, err := svc.Entitlements.Resolve(ctx, tid)
			if err != nil {
				return nil, mapError("failed to resolve plan", err)
			}
			if !snap.Features.CanAccessThemes {
				return nil, huma.Error403Forbidden("theme access requires a higher plan")
			}
		}

		p := &domain.SiteProfile{
			TenantID:     tid,
			SiteTitle:    input.Body.SiteTitle,
			Description:  input.Body.Description,
			Theme:        input.Body.Theme,
			FaviconURL:   input.Body.FaviconURL,
			ContactEmail: input.Body.ContactEmail,
		}

		if err := svc.Store.SiteProfiles().Upsert(ctx, p); err != nil {
			return nil, mapError("failed to save profile", err)
		}

		publishChange(ctx, svc, "profiles", domain.ChangeUpdate, tid, nil)
		return &ProfileOutput{Body: p}, nil
	})
}
