package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	internalmiddleware "github.com/noah-isme/tutor-center-api/internal/middleware"
	"github.com/noah-isme/tutor-center-api/internal/models"
	"github.com/noah-isme/tutor-center-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutor-center-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutor-center-api/pkg/middleware/requestid"
	"github.com/noah-isme/tutor-center-api/pkg/response"
)

// RouterConfig carries the settings that shape the middleware chain.
type RouterConfig struct {
	AllowedOrigins []string
	EnforceAuth    bool
	ServeDocs      bool
	Logger         *zap.Logger
	Requests       internalmiddleware.RequestObserver
	Tokens         internalmiddleware.TokenValidator
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Teachers *TeacherHandler
	Students *StudentHandler
	Groups   *GroupHandler
	Payments *PaymentHandler
	Tasks    *TaskHandler
	Company  *CompanyHandler
	System   *SystemHandler
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(internalmiddleware.Recovery(log))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	if cfg.Requests != nil {
		r.Use(internalmiddleware.Metrics(cfg.Requests))
	}
	r.NoRoute(response.NotFound)

	r.GET("/", h.System.Info)
	r.GET("/health", h.System.Health)
	r.GET("/ready", h.System.Ready)
	r.GET("/metrics", h.System.Prometheus)
	if cfg.ServeDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login/student", h.Auth.LoginStudent)
	auth.POST("/login/teacher", h.Auth.LoginTeacher)

	// Groups copy their parent's middleware when created, so guards go in first.
	enforce := cfg.EnforceAuth && cfg.Tokens != nil
	api := r.Group("/")
	if enforce {
		api.Use(internalmiddleware.JWT(cfg.Tokens))
	}
	users := api.Group("/users")
	if enforce {
		users.Use(internalmiddleware.RequireRoles(models.RoleAdmin))
	}

	users.GET("", h.Users.List)
	users.PUT("/:id", h.Users.Update)
	users.DELETE("/:id", h.Users.Delete)

	teachers := api.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.GET("/:id", h.Teachers.Get)
	teachers.POST("", h.Teachers.Create)
	teachers.PUT("/:id", h.Teachers.Update)
	teachers.DELETE("/:id", h.Teachers.Delete)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.GET("/:id", h.Students.Get)
	students.POST("", h.Students.Create)
	students.PUT("/:id", h.Students.Update)
	students.PUT("/:id/group", h.Students.AssignGroup)
	students.DELETE("/:id", h.Students.Delete)

	groups := api.Group("/groups")
	groups.GET("", h.Groups.List)
	groups.GET("/:id", h.Groups.Get)
	groups.POST("", h.Groups.Create)
	groups.PUT("/:id", h.Groups.Update)
	groups.PUT("/:id/add-student", h.Groups.AddStudent)
	groups.PUT("/:id/remove-student", h.Groups.RemoveStudent)
	groups.DELETE("/:id", h.Groups.Delete)

	payments := api.Group("/payments")
	payments.GET("", h.Payments.List)
	payments.GET("/export", h.Payments.Export)
	payments.POST("", h.Payments.Create)
	payments.PUT("/:id", h.Payments.Update)
	payments.DELETE("/:id", h.Payments.Delete)

	tasks := api.Group("/tasks")
	tasks.GET("", h.Tasks.List)
	tasks.GET("/group/:id", h.Tasks.ListByGroup)
	tasks.POST("", h.Tasks.Create)
	tasks.PUT("/:id", h.Tasks.Update)
	tasks.DELETE("/:id", h.Tasks.Delete)

	companies := api.Group("/companies")
	companies.GET("", h.Company.ListCompanies)
	companies.POST("", h.Company.CreateCompany)
	companies.PUT("/:id", h.Company.UpdateCompany)
	companies.DELETE("/:id", h.Company.DeleteCompany)

	branches := api.Group("/branches")
	branches.GET("", h.Company.ListBranches)
	branches.GET("/:id/stats", h.Company.BranchStats)
	branches.POST("", h.Company.CreateBranch)
	branches.PUT("/:id", h.Company.UpdateBranch)
	branches.DELETE("/:id", h.Company.DeleteBranch)

	return r
}
