package db

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Yamanxl9/employee-management-system/internal/domain/auth"
	"github.com/Yamanxl9/employee-management-system/internal/platform/config"
)

type seedCompany struct {
	CompanyCode    string `bson:"company_code"`
	CompanyNameEng string `bson:"company_name_eng"`
	CompanyNameAra string `bson:"company_name_ara"`
}

type seedJob struct {
	JobCode int    `bson:"job_code"`
	JobEng  string `bson:"job_eng"`
	JobAra  string `bson:"job_ara"`
}

type seedDepartment struct {
	DepartmentCode    string `bson:"department_code"`
	DepartmentNameEng string `bson:"department_name_eng"`
	DepartmentNameAra string `bson:"department_name_ara"`
}

// Seed loads the reference collections and the admin user on first start.
// Reference data is only inserted when the collections are empty.
func Seed(ctx context.Context, database *mongo.Database, cfg config.Config) error {
	count, err := database.Collection("companies").CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count == 0 {
		if err := seedReferenceData(ctx, database); err != nil {
			return err
		}
	}
	return seedAdminUser(ctx, database, cfg)
}

func seedReferenceData(ctx context.Context, database *mongo.Database) error {
	companies := []any{
		seedCompany{"BRG", "Middle East Bridge Trading", "میدل ایست بریدج للتجارة العامة (ش.ذ.م.م)"},
		seedCompany{"HON", "Honda Resources", "موارد هوندا"},
		seedCompany{"LIV", "Liverage Trading", "ليفردج للتجارة"},
		seedCompany{"MNT", "Mint Art Gallery", "مينت آرت جالاري"},
		seedCompany{"SQF", "SQFT General Store", "اس كيو اف تي للمخازن العامة"},
		seedCompany{"TAM", "Tamayoz", "تميز"},
		seedCompany{"UNI", "UNI FOOD GENERAL TRADING LLC", "يونيفود للتجارة"},
	}
	if _, err := database.Collection("companies").InsertMany(ctx, companies); err != nil {
		return err
	}

	jobs := []any{
		seedJob{1, "Accountant", "محاسب"},
		seedJob{2, "Archive Clerk", "كاتب الأرشيف"},
		seedJob{3, "Commercial Sales Representative", "ممثل مبيعات تجاري"},
		seedJob{4, "Computer Engineer", "مهندس كومبيوتر"},
		seedJob{5, "Filing Clerk", "كاتب ملفات"},
		seedJob{6, "Marketing Manager", "مدير التسويق"},
		seedJob{7, "Messenger", "مراسل"},
		seedJob{8, "Operations Manager", "مدير عمليات"},
		seedJob{9, "Sales Manager", "مدير المبيعات"},
		seedJob{10, "Shop Assistant", "عامل مساعد بمتجر"},
		seedJob{11, "Stall and Market Salesperson", "مندوب مبيعات الأكشاك والسوق"},
		seedJob{12, "Stevedore", "محمل سفن"},
		seedJob{13, "Legal Consultant", "استشاري قانوني"},
		seedJob{14, "Finance Director", "مدير المالية"},
		seedJob{15, "Administration Manager", "مدير ادارة"},
		seedJob{16, "Loading and unloading worker", "عامل الشحن والتفريغ"},
		seedJob{17, "Marketing Specialist", "أخصائي تسويق"},
		seedJob{18, "Storekeeper", "أمين مخزن"},
		seedJob{19, "General Manager", "مدير عام"},
	}
	if _, err := database.Collection("jobs").InsertMany(ctx, jobs); err != nil {
		return err
	}

	departments := []any{
		seedDepartment{"HR", "Human Resources", "الموارد البشرية"},
		seedDepartment{"FIN", "Finance", "المالية"},
		seedDepartment{"OPS", "Operations", "العمليات"},
		seedDepartment{"SAL", "Sales", "المبيعات"},
		seedDepartment{"ADM", "Administration", "الإدارة"},
	}
	_, err := database.Collection("departments").InsertMany(ctx, departments)
	return err
}

func seedAdminUser(ctx context.Context, database *mongo.Database, cfg config.Config) error {
	if cfg.SeedAdminUsername == "" || cfg.SeedAdminPassword == "" {
		slog.Info("admin seed skipped, SEED_ADMIN_USERNAME/SEED_ADMIN_PASSWORD not set")
		return nil
	}

	users := database.Collection("users")
	count, err := users.CountDocuments(ctx, bson.M{"username": cfg.SeedAdminUsername})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	_, err = users.InsertOne(ctx, bson.M{
		"username":   cfg.SeedAdminUsername,
		"password":   hash,
		"role":       "admin",
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	slog.Info("admin user seeded", "username", cfg.SeedAdminUsername)
	return nil
}
