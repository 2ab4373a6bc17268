package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newIntegrationStore connects to the database named by MONGODB_TEST_URI and
// hands back a store over a throwaway database. Skips when the variable is
// unset so the suite stays runnable without Mongo.
func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if strings.TrimSpace(uri) == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect failed: %v", err)
	}
	database := client.Database(fmt.Sprintf("employees_it_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = database.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return NewStore(database)
}

func TestStoreCreateAndFetchRoundTrip(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	expiry := time.Date(2027, time.March, 15, 0, 0, 0, 0, time.UTC)
	created, err := store.Create(ctx, Employee{
		StaffNo:         "IT001",
		StaffName:       "Ahmed Hassan",
		StaffNameAra:    "أحمد حسن",
		NationalityCode: "EG",
		JobCode:         3,
		CompanyCode:     "BRG",
		CardNo:          "784-1234",
		CardExpiryDate:  &expiry,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.CreateDateTime.IsZero() {
		t.Fatalf("create did not stamp create_date_time")
	}

	got, err := store.GetByStaffNo(ctx, "IT001")
	if err != nil {
		t.Fatalf("fetch after create failed: %v", err)
	}
	if got.StaffName != "Ahmed Hassan" || got.StaffNameAra != "أحمد حسن" || got.NationalityCode != "EG" {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if got.CardExpiryDate == nil || !got.CardExpiryDate.Equal(expiry) {
		t.Fatalf("card expiry = %v, want %v", got.CardExpiryDate, expiry)
	}

	if _, err := store.GetByStaffNo(ctx, "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown staff number error = %v, want ErrNotFound", err)
	}
}

func TestStoreCreateRejectsDuplicateStaffNo(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	first := Employee{StaffNo: "IT002", StaffName: "First", StaffNameAra: "الأول", NationalityCode: "IN", JobCode: 1, CompanyCode: "BRG"}
	if _, err := store.Create(ctx, first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	second := first
	second.StaffName = "Second"
	if _, err := store.Create(ctx, second); !errors.Is(err, ErrDuplicateStaffNo) {
		t.Fatalf("duplicate create error = %v, want ErrDuplicateStaffNo", err)
	}
}

func TestStoreReferenceDeleteGuard(t *testing.T) {
	store := newIntegrationStore(t)
	ctx := context.Background()

	if err := store.CreateCompany(ctx, Company{CompanyCode: "GRD", CompanyNameEng: "Guarded Co", CompanyNameAra: "شركة"}); err != nil {
		t.Fatalf("create company failed: %v", err)
	}
	if err := store.CreateJob(ctx, Job{JobCode: 42, JobEng: "Welder", JobAra: "لحام"}); err != nil {
		t.Fatalf("create job failed: %v", err)
	}
	if err := store.CreateDepartment(ctx, Department{DepartmentCode: "OPS", DepartmentNameEng: "Operations", DepartmentNameAra: "العمليات"}); err != nil {
		t.Fatalf("create department failed: %v", err)
	}
	emp := Employee{StaffNo: "IT003", StaffName: "Holder", StaffNameAra: "حامل", NationalityCode: "PK", JobCode: 42, CompanyCode: "GRD", DepartmentCode: "OPS"}
	if _, err := store.Create(ctx, emp); err != nil {
		t.Fatalf("create employee failed: %v", err)
	}

	var refErr *ReferencedError
	if err := store.DeleteCompany(ctx, "GRD"); !errors.As(err, &refErr) {
		t.Fatalf("company delete error = %v, want ReferencedError", err)
	} else if refErr.Count != 1 {
		t.Fatalf("company blocking count = %d, want 1", refErr.Count)
	}
	if err := store.DeleteJob(ctx, 42); !errors.As(err, &refErr) {
		t.Fatalf("job delete error = %v, want ReferencedError", err)
	}
	if err := store.DeleteDepartment(ctx, "OPS"); !errors.As(err, &refErr) {
		t.Fatalf("department delete error = %v, want ReferencedError", err)
	}

	// Once the referencing employee is gone the deletes go through.
	if err := store.Delete(ctx, "IT003"); err != nil {
		t.Fatalf("employee delete failed: %v", err)
	}
	if err := store.DeleteCompany(ctx, "GRD"); err != nil {
		t.Fatalf("unreferenced company delete failed: %v", err)
	}
	if err := store.DeleteCompany(ctx, "GRD"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second company delete error = %v, want ErrNotFound", err)
	}
}
