// Package http wires the route surface onto an echo instance. Every
// business route lives under /apis; the health probes sit at the root.
package http

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/config"
	"github.com/prasowlabs/moi-kanakku/internal/handlers"
	"github.com/prasowlabs/moi-kanakku/internal/jobs"
	"github.com/prasowlabs/moi-kanakku/internal/middleware/apikey"
	"github.com/prasowlabs/moi-kanakku/internal/middleware/auth"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/mykafka"
	"github.com/prasowlabs/moi-kanakku/internal/notify"
	"github.com/prasowlabs/moi-kanakku/internal/service"
	"github.com/prasowlabs/moi-kanakku/internal/token"
)

type Deps struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Tokens   *token.Service
	Perms    *service.PermissionService
	Producer *mykafka.Producer
	Jobs     *jobs.Client
	ES       *elasticsearch.Client
	Push     *notify.PushSender
}

func Register(e *echo.Echo, d Deps) {
	mw := &auth.Middleware{DB: d.DB, Tokens: d.Tokens, Perms: d.Perms}

	authH := &handlers.AuthHandler{
		DB: d.DB, Tokens: d.Tokens, Producer: d.Producer,
		Jobs: d.Jobs, AdminEmail: d.Cfg.ADMIN_EMAIL,
	}
	userH := &handlers.UserHandler{DB: d.DB, Tokens: d.Tokens}
	employeeH := &handlers.EmployeeHandler{DB: d.DB, Perms: d.Perms}
	moiH := &handlers.MoiHandler{DB: d.DB, Perms: d.Perms, Producer: d.Producer}
	moiOutH := &handlers.MoiOutHandler{DB: d.DB}
	ledgerH := &handlers.LedgerHandler{DB: d.DB, Producer: d.Producer}
	personH := &handlers.PersonHandler{DB: d.DB, ES: d.ES}
	functionH := &handlers.FunctionHandler{DB: d.DB, Perms: d.Perms}
	upcomingH := &handlers.UpcomingHandler{DB: d.DB}
	defaultsH := &handlers.DefaultsHandler{DB: d.DB}
	feedbackH := &handlers.FeedbackHandler{DB: d.DB}
	notificationH := &handlers.NotificationHandler{DB: d.DB, Push: d.Push}
	uploadH := &handlers.UploadHandler{Dir: d.Cfg.UPLOAD_DIR}
	emailH := &handlers.EmailHandler{Jobs: d.Jobs}
	searchH := &handlers.SearchHandler{ES: d.ES}
	adminH := &handlers.AdminHandler{DB: d.DB, Tokens: d.Tokens}

	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	apis := e.Group("/apis")

	user := apis.Group("/users")
	user.POST("/login", authH.Login)
	user.POST("/create", authH.Register,
		apikey.Validate(d.Cfg.API_SECRET_KEY), apikey.RegistrationLimiter())
	user.POST("/resetPassword", userH.ResetPassword, apikey.Validate(d.Cfg.API_SECRET_KEY))
	user.POST("/logout", authH.Logout, mw.Authenticate)
	user.POST("/update", userH.Update, mw.Authenticate)
	user.GET("/details/:id", userH.Details, mw.Authenticate)
	user.POST("/updatePassword", userH.UpdatePassword, mw.Authenticate)
	user.POST("/deleteUser", userH.Delete, mw.Authenticate)
	user.POST("/updateNotificationToken", userH.UpdateNotificationToken, mw.Authenticate)

	apis.POST("/employees/login", authH.EmployeeLogin)

	// Employee management is the owner's surface, admin gated.
	employee := apis.Group("/employee", mw.Authenticate, mw.IsAdmin)
	employee.POST("/create", employeeH.Create)
	employee.GET("/list", employeeH.GetAll)
	employee.GET("/:id", employeeH.GetByID)
	employee.PUT("/:id", employeeH.Update)
	employee.POST("/:id/status", employeeH.UpdateStatus)
	employee.POST("/permission/assign", employeeH.AssignPermission)
	employee.POST("/permission/cancel", employeeH.CancelPermission)
	employee.GET("/permission/all", employeeH.AllPermissions)
	employee.GET("/:id/permissions", employeeH.Permissions)

	// Data entry routes delegated employees hit. The permission gate reads
	// the function scope from the request; the handlers run their own check
	// too for the user-facing routes below.
	entry := apis.Group("/employee-entry", mw.Authenticate, mw.IsEmployee)
	entry.POST("/moi", moiH.Create, mw.HasEmployeePermission(models.PermissionMoiInsert))
	entry.POST("/function", functionH.Create, mw.HasEmployeePermission(models.PermissionFunctionCreate))

	moi := apis.Group("/moi", mw.Authenticate)
	moi.POST("/list", moiH.List)
	moi.POST("/create", moiH.Create)
	moi.POST("/update", moiH.Update)
	moi.GET("/delete/:id", moiH.Delete)

	moiOut := apis.Group("/moi-out", mw.Authenticate)
	moiOut.POST("/list", moiOutH.List)
	moiOut.POST("/create", moiOutH.Create)
	moiOut.POST("/update", moiOutH.Update)
	moiOut.GET("/delete/:id", moiOutH.Delete)

	ledger := apis.Group("/moi-credit-debit", mw.Authenticate)
	ledger.POST("/dashboard", ledgerH.Dashboard)
	ledger.POST("/list", ledgerH.List)
	ledger.POST("/return", ledgerH.AddReturn)
	ledger.POST("/invest", ledgerH.AddInvest)
	ledger.PUT("/update", ledgerH.Update)
	ledger.GET("/:id", ledgerH.GetByID)
	ledger.DELETE("/:id", ledgerH.Delete)

	person := apis.Group("/moi-person", mw.Authenticate)
	person.POST("/list", personH.List)
	person.POST("/details", personH.Details)
	person.POST("/create", personH.Create)
	person.PUT("/update", personH.Update)
	person.GET("/:id", personH.GetByID)
	person.DELETE("/:id", personH.Delete)

	function := apis.Group("/moi-function", mw.Authenticate)
	function.POST("/list", functionH.List)
	function.POST("/create", functionH.Create)
	function.POST("/update", functionH.Update)
	function.GET("/delete/:id", functionH.Delete)

	upcoming := apis.Group("/upcoming-function", mw.Authenticate)
	upcoming.POST("/list", upcomingH.List)
	upcoming.POST("/create", upcomingH.Create)
	upcoming.POST("/update", upcomingH.Update)
	upcoming.GET("/delete/:id", upcomingH.Delete)

	defaults := apis.Group("/default", mw.Authenticate)
	defaults.GET("/payment-lists", defaultsH.PaymentModes)
	defaults.POST("/list", defaultsH.DefaultFunctions)
	defaults.POST("/create", defaultsH.CreateDefaultFunction)
	defaults.POST("/total-amount", defaultsH.Totals)

	feedback := apis.Group("/feedbacks", mw.Authenticate)
	feedback.POST("/create", feedbackH.Create)
	feedback.GET("/user/:id", feedbackH.ListByUser)

	notification := apis.Group("/notification", mw.Authenticate)
	notification.POST("/sendNotification", notificationH.Send)
	notification.GET("/user/:id", notificationH.ListByUser)
	notification.POST("/read/:id", notificationH.MarkRead)

	upload := apis.Group("/uploads", mw.Authenticate)
	upload.POST("/saveFiles", uploadH.Save)
	upload.POST("/delete", uploadH.Delete)

	apis.POST("/email/sendEmail", emailH.Send, mw.Authenticate)
	apis.GET("/search/persons", searchH.Persons, mw.Authenticate)

	admin := apis.Group("/admin")
	admin.POST("/login", adminH.Login, apikey.Validate(d.Cfg.API_SECRET_KEY))
	adminAuth := admin.Group("", mw.Authenticate, mw.IsAdmin)
	adminAuth.GET("/moi-users", adminH.Users)
	adminAuth.GET("/moi-users/:id", adminH.UserByID)
	adminAuth.GET("/moi-user-list", adminH.MoiRecords)
	adminAuth.GET("/moi-user-list/:userId", adminH.MoiRecordsByUser)
	adminAuth.GET("/moi-user-function", adminH.Functions)
	adminAuth.GET("/moi-user-function/:userId", adminH.FunctionsByUser)
	adminAuth.GET("/moi-out-all", adminH.MoiOutRecords)
	adminAuth.GET("/moi-out-all/:userId", adminH.MoiOutRecordsByUser)
	adminAuth.GET("/feedbacks", adminH.Feedbacks)
	adminAuth.POST("/feedback/reply", adminH.ReplyFeedback)
}
