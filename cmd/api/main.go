package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/leavehq/leave-backend-go/internal/config"
	appHTTP "github.com/leavehq/leave-backend-go/internal/handler/http"
	"github.com/leavehq/leave-backend-go/internal/pkg/database"
	"github.com/leavehq/leave-backend-go/internal/pkg/email"
	"github.com/leavehq/leave-backend-go/internal/pkg/jwt"
	"github.com/leavehq/leave-backend-go/internal/repository/postgresql"
	authService "github.com/leavehq/leave-backend-go/internal/service/auth"
	employeeService "github.com/leavehq/leave-backend-go/internal/service/employee"
	holidayService "github.com/leavehq/leave-backend-go/internal/service/holiday"
	"github.com/leavehq/leave-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveAuditRepo := postgresql.NewLeaveAuditRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}

	dayCounter := leave.NewDayCounter(holidayRepo)
	balanceService := leave.NewBalanceService(db, leaveTypeRepo, leaveBalanceRepo)
	requestService := leave.NewRequestService(
		db,
		leaveTypeRepo,
		leaveRequestRepo,
		leaveAuditRepo,
		employeeRepo,
		userRepo,
		balanceService,
		dayCounter,
		emailService,
	)
	leaveSvc := leave.NewLeaveService(
		db,
		leaveTypeRepo,
		leaveRequestRepo,
		leaveBalanceRepo,
		leaveAuditRepo,
		balanceService,
		requestService,
		dayCounter,
	)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo, userRepo, leaveSvc)
	authSvc := authService.NewAuthService(userRepo, employeeRepo, jwtService)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	holidayHandler := appHTTP.NewHolidayHandler(holidaySvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		authHandler,
		leaveHandler,
		holidayHandler,
		employeeHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
