package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くても起動できる（本番は環境変数で渡す）
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserProfile{},
		&model.Product{},
		&model.Order{},
		&model.OrderLine{},
		&model.Appointment{},
		&model.Testimonial{},
		&model.AuditLog{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(gormDB)
	testimonialRepo := infraRepo.NewTestimonialGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	profileRepo := infraRepo.NewUserProfileGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	clock := &realClock{}

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, txManager)
	cartUC := usecase.NewCartUsecase(txManager)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, validator.NewCheckoutValidator(), clock)
	orderUC := usecase.NewOrderUsecase(txManager)
	appointmentUC := usecase.NewAppointmentUsecase(appointmentRepo, clock)
	testimonialUC := usecase.NewTestimonialUsecase(testimonialRepo)
	auditUC := usecase.NewAuditUsecase(auditRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, profileRepo, validator.NewAuthValidator(), clock)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Checkout:     handler.NewCheckoutHandler(checkoutUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(orderUC, auditUC),
		Appointment:  handler.NewAppointmentHandler(appointmentUC),
		Testimonial:  handler.NewTestimonialHandler(testimonialUC),
	}

	e := server.New(cfg, log, handlers)

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("starting server")

	if err := server.Start(e, addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
