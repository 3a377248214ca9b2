package http

import (
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/bychung/snusv-angel-club-sub003/internal/application/auth"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/documents"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/ports"
	"github.com/bychung/snusv-angel-club-sub003/internal/application/usecase"
	"github.com/bychung/snusv-angel-club-sub003/internal/domain/entity"
)

// RouterDeps dependencies of the router.
type RouterDeps struct {
	AppName     string
	AuthUC      *auth.AuthUseCase
	Verifier    ports.TokenVerifier
	FundUC      *usecase.FundUseCase
	ProfileUC   *usecase.ProfileUseCase
	MemberUC    *usecase.MemberUseCase
	SurveyUC    *usecase.SurveyUseCase
	Documents   *documents.Service
	TemplateUC  *documents.TemplateUseCase
	Files       FileOpener // local storage only
	SwaggerFile string     // empty disables /docs
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.SwaggerFile != "" {
		// Swagger UI: http://localhost:<port>/docs
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: deps.SwaggerFile,
			Path:     "docs",
			Title:    "Angel Club API",
		}))
	}
	app.Get("/health", Health(deps.AppName))
	if deps.Files != nil {
		app.Get("/files", Files(deps.Files))
	}

	fundHandler := NewFundHandler(deps.FundUC)
	memberHandler := NewMemberHandler(deps.MemberUC)
	profileHandler := NewProfileHandler(deps.ProfileUC, deps.AuthUC)
	surveyHandler := NewSurveyHandler(deps.SurveyUC)
	documentHandler := NewDocumentHandler(deps.Documents)
	templateHandler := NewTemplateHandler(deps.TemplateUC)

	api := app.Group("/api")

	// Public
	api.Post("/funds/:fundId/survey", surveyHandler.Submit)

	// Authenticated (Bearer token)
	protected := api.Group("/", AuthMiddleware(deps.Verifier, deps.AuthUC))
	protected.Get("/me", profileHandler.Me)
	protected.Get("/funds", fundHandler.ListMine)
	memberFund := protected.Group("/funds/:fundId", RequireFundAccess(deps.MemberUC))
	memberFund.Get("/", fundHandler.GetMine)
	memberFund.Get("/documents/:type/latest", documentHandler.LatestPDF)

	// Admin
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))

	funds := admin.Group("/funds")
	funds.Get("/", fundHandler.List)
	funds.Post("/", fundHandler.Create)
	funds.Get("/:fundId", fundHandler.Get)
	funds.Put("/:fundId", fundHandler.Update)
	funds.Delete("/:fundId", RequireSystemAdmin(), fundHandler.Delete)

	funds.Get("/:fundId/members", memberHandler.List)
	funds.Post("/:fundId/members", memberHandler.Add)
	funds.Put("/:fundId/members/:memberId", memberHandler.Update)
	funds.Delete("/:fundId/members/:memberId", memberHandler.Delete)

	funds.Post("/:fundId/documents/:type/generate", documentHandler.Generate)
	funds.Get("/:fundId/documents/:type/preview", documentHandler.Preview)
	funds.Get("/:fundId/documents/:type/versions", documentHandler.Versions)
	funds.Get("/:fundId/documents/:type/latest", documentHandler.Latest)

	profiles := admin.Group("/profiles")
	profiles.Get("/", profileHandler.List)
	profiles.Post("/", profileHandler.Create)
	profiles.Get("/:profileId", profileHandler.Get)
	profiles.Put("/:profileId", profileHandler.Update)

	docs := admin.Group("/documents")
	docs.Get("/compare", documentHandler.Compare)
	docs.Get("/:documentId", documentHandler.Get)
	docs.Get("/:documentId/pdf", documentHandler.PDF)
	docs.Get("/:documentId/url", documentHandler.SignedURL)
	docs.Delete("/:documentId", documentHandler.Delete)

	templates := admin.Group("/templates")
	templates.Get("/", templateHandler.List)
	templates.Post("/", templateHandler.Create)
	templates.Get("/active", templateHandler.Active)
	templates.Get("/:templateId", templateHandler.Get)
	templates.Post("/:templateId/activate", RequireSystemAdmin(), templateHandler.Activate)
}
