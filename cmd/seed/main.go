package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 開発用のデモデータ投入コマンド。何度実行しても壊れない（upsert）。

type seedUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      model.Role
}

var seedUsers = []seedUser{
	{Email: "admin@example.com", Password: "adminpass", FirstName: "Admin", LastName: "User", Role: model.RoleAdmin},
	{Email: "superadmin@example.com", Password: "superadminpass", FirstName: "Super", LastName: "Admin", Role: model.RoleAdmin},
	{Email: "client@example.com", Password: "clientpass", FirstName: "Client", LastName: "User", Role: model.RoleUser},
}

var seedAppointments = []model.Appointment{
	{Name: "Sesión 40'", Price: decimal.RequireFromString("28.00"), Duration: 40},
	{Name: "Sesión 60'", Price: decimal.RequireFromString("45.00"), Duration: 60},
	{Name: "Sesión 90'", Price: decimal.RequireFromString("70.00"), Duration: 90},
	{Name: "3 sesiones de 40'", Price: decimal.RequireFromString("70.00"), Duration: 40},
	{Name: "Sesión Premium 60'", Price: decimal.RequireFromString("50.00"), Duration: 60, Premium: true,
		Description: "Masaje, osteopatía, par biomagnético y emociones atrapadas."},
	{Name: "Domicilio 60'", Price: decimal.RequireFromString("100.00"), Duration: 60},
}

var seedProducts = []model.Product{
	{Name: "Product A", Ref: strPtr("PROD-A"), Price: decimal.RequireFromString("19.99"), Flavor: strPtr("Vanilla"), Size: strPtr("Medium"), Stock: 10},
	{Name: "Product B", Ref: strPtr("PROD-B"), Price: decimal.RequireFromString("29.99"), Flavor: strPtr("Chocolate"), Size: strPtr("Large"), Stock: 10},
}

var seedTestimonials = []model.Testimonial{
	{Author: "M. García", Text: "Trato excelente y resultados desde la primera sesión."},
	{Author: "J. Ruiz", Text: "El mejor sitio de la zona, totalmente recomendable."},
}

func main() {
	_ = godotenv.Load()

	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

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

	users, err := upsertUsers(gormDB, log)
	if err != nil {
		log.WithError(err).Fatal("seed users failed")
	}

	if err := upsertAppointments(gormDB, log); err != nil {
		log.WithError(err).Fatal("seed appointments failed")
	}

	products, err := upsertProducts(gormDB, log)
	if err != nil {
		log.WithError(err).Fatal("seed products failed")
	}

	if err := upsertTestimonials(gormDB, log); err != nil {
		log.WithError(err).Fatal("seed testimonials failed")
	}

	if err := seedDemoOrders(gormDB, log, users, products); err != nil {
		log.WithError(err).Fatal("seed orders failed")
	}

	log.Info("seeding finished")
}

func upsertUsers(gormDB *gorm.DB, log *logrus.Logger) (map[string]model.User, error) {
	out := map[string]model.User{}

	for _, su := range seedUsers {
		var u model.User
		err := gormDB.Where("email = ?", su.Email).First(&u).Error
		if err == gorm.ErrRecordNotFound {
			hash, herr := bcrypt.GenerateFromPassword([]byte(su.Password), 12)
			if herr != nil {
				return nil, herr
			}
			u = model.User{
				Email:        su.Email,
				PasswordHash: string(hash),
				FirstName:    su.FirstName,
				LastName:     su.LastName,
				Role:         su.Role,
				IsActive:     true,
			}
			if cerr := gormDB.Create(&u).Error; cerr != nil {
				return nil, cerr
			}
			log.WithField("email", u.Email).Info("created user")
		} else if err != nil {
			return nil, err
		}

		//プロフィールも1件ずつ用意
		profile := model.UserProfile{UserID: u.ID}
		if perr := gormDB.Clauses(clause.OnConflict{DoNothing: true}).Create(&profile).Error; perr != nil {
			return nil, perr
		}

		out[su.Email] = u
	}
	return out, nil
}

func upsertAppointments(gormDB *gorm.DB, log *logrus.Logger) error {
	for _, a := range seedAppointments {
		var existing model.Appointment
		err := gormDB.Where("name = ?", a.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if cerr := gormDB.Create(&a).Error; cerr != nil {
				return cerr
			}
			log.WithField("name", a.Name).Info("created appointment")
			continue
		}
		if err != nil {
			return err
		}

		existing.Price = a.Price
		existing.Duration = a.Duration
		existing.Description = a.Description
		existing.Premium = a.Premium
		if serr := gormDB.Save(&existing).Error; serr != nil {
			return serr
		}
	}
	return nil
}

func upsertProducts(gormDB *gorm.DB, log *logrus.Logger) (map[string]model.Product, error) {
	out := map[string]model.Product{}

	for _, p := range seedProducts {
		var existing model.Product
		err := gormDB.Where("ref = ?", *p.Ref).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if cerr := gormDB.Create(&p).Error; cerr != nil {
				return nil, cerr
			}
			log.WithField("name", p.Name).Info("created product")
			out[*p.Ref] = p
			continue
		}
		if err != nil {
			return nil, err
		}

		existing.Name = p.Name
		existing.Price = p.Price
		existing.Flavor = p.Flavor
		existing.Size = p.Size
		if serr := gormDB.Save(&existing).Error; serr != nil {
			return nil, serr
		}
		out[*p.Ref] = existing
	}
	return out, nil
}

func upsertTestimonials(gormDB *gorm.DB, log *logrus.Logger) error {
	for _, t := range seedTestimonials {
		var existing model.Testimonial
		err := gormDB.Where("author = ?", t.Author).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if cerr := gormDB.Create(&t).Error; cerr != nil {
				return cerr
			}
			log.WithField("author", t.Author).Info("created testimonial")
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// 履歴画面の動作確認用に確定済み注文をいくつか入れる
func seedDemoOrders(gormDB *gorm.DB, log *logrus.Logger, users map[string]model.User, products map[string]model.Product) error {
	var count int64
	if err := gormDB.Model(&model.Order{}).Where("status <> ?", model.OrderStatusInCart).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		// 既にあれば触らない
		return nil
	}

	client := users["client@example.com"]
	prodA := products["PROD-A"]
	prodB := products["PROD-B"]

	demo := []struct {
		number string
		status model.OrderStatus
		paid   bool
		lines  []model.OrderLine
	}{
		{
			number: "ORD-9F3C21A08B55",
			status: model.OrderStatusSolicited,
			paid:   true,
			lines: []model.OrderLine{
				{ProductID: &prodA.ID, Quantity: 2, PriceAtOrder: prodA.Price, ProductName: prodA.Name, ProductImage: prodA.Image},
				{ProductID: &prodB.ID, Quantity: 1, PriceAtOrder: prodB.Price, ProductName: prodB.Name, ProductImage: prodB.Image},
			},
		},
		{
			number: "ORD-1B77D2E4C900",
			status: model.OrderStatusOrdered,
			paid:   false,
			lines: []model.OrderLine{
				{ProductID: &prodB.ID, Quantity: 1, PriceAtOrder: prodB.Price, ProductName: prodB.Name, ProductImage: prodB.Image},
			},
		},
		{
			number: "ORD-55A0E19D73F2",
			status: model.OrderStatusPickedUpByClient,
			paid:   true,
			lines: []model.OrderLine{
				{ProductID: &prodA.ID, Quantity: 1, PriceAtOrder: prodA.Price, ProductName: prodA.Name, ProductImage: prodA.Image},
			},
		},
	}

	for _, d := range demo {
		num := d.number
		order := model.Order{
			Status:            d.status,
			OrderNumber:       &num,
			RegisteredUserID:  &client.ID,
			SolicitantName:    client.FirstName + " " + client.LastName,
			SolicitantContact: client.Email,
			IsPaid:            d.paid,
		}
		if err := gormDB.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range d.lines {
			line.OrderID = order.ID
			if err := gormDB.Create(&line).Error; err != nil {
				return err
			}
		}

		log.WithField("order_number", num).Info("created demo order")
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
