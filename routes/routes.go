package routes

import (
	"library_circulation/app"
	"library_circulation/controllers"
	"library_circulation/sweeper"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App, sweep *sweeper.Sweeper) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	accountCtl := controllers.NewAccountController(s)
	bookCtl := controllers.NewBookController(s)
	loanCtl := controllers.NewLoanController(s)
	memberCtl := controllers.NewMemberController(s)
	dashCtl := controllers.NewDashboardController(s)
	sweepCtl := controllers.NewSweepController(sweep)

	authMW := app.AuthRequired(a.AppSessions(), s.Repo)
	managerMW := app.ManagerOnly()

	// ------------------------------
	// Session (public login; the rest needs auth)
	// ------------------------------
	r.POST("/session", authCtl.Login)
	r.DELETE("/session", authMW, authCtl.Logout)
	r.GET("/session/current", authMW, authCtl.Current)

	// ------------------------------
	// Current account
	// ------------------------------
	account := r.Group("/api/account", authMW)
	{
		account.GET("", accountCtl.Show)
		account.PUT("", accountCtl.Update)
		account.PATCH("/password", accountCtl.Password)
	}

	// ------------------------------
	// Catalog: browse for everyone, CRUD for managers
	// ------------------------------
	books := r.Group("/api/books", authMW)
	{
		books.GET("", bookCtl.ListBooks)
		books.GET("/:id", bookCtl.GetBook)
		books.POST("/:id/borrow", loanCtl.Borrow)
	}
	booksAdmin := r.Group("/api/books", authMW, managerMW)
	{
		booksAdmin.POST("", bookCtl.CreateBook)
		booksAdmin.PUT("/:id", bookCtl.UpdateBook)
		booksAdmin.DELETE("/:id", bookCtl.DeleteBook)
	}

	// ------------------------------
	// Loans
	// ------------------------------
	loans := r.Group("/api/loans", authMW)
	{
		loans.GET("", loanCtl.ListLoans)
		loans.POST("/:loanId/return", loanCtl.Return)
	}

	// ------------------------------
	// Members (manager only)
	// ------------------------------
	members := r.Group("/api/members", authMW, managerMW)
	{
		members.GET("", memberCtl.ListMembers)
		members.GET("/:id", memberCtl.GetMember)
		members.POST("", memberCtl.CreateMember)
		members.PUT("/:id", memberCtl.UpdateMember)
		members.DELETE("/:id", memberCtl.DeleteMember)
	}

	// ------------------------------
	// Dashboards
	// ------------------------------
	dash := r.Group("/api/dashboard", authMW)
	{
		dash.GET("/manager", managerMW, dashCtl.Manager)
		dash.GET("/member", dashCtl.Member)
	}

	// ------------------------------
	// Admin: manual overdue sweep
	// ------------------------------
	admin := r.Group("/api/admin", authMW, managerMW)
	{
		admin.POST("/sweep", sweepCtl.Run)
	}
}
