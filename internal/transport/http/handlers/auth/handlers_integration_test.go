package authhandler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yamanxl9/employee-management-system/internal/domain/auth"
)

// newIntegrationHandler connects to MONGODB_TEST_URI over a throwaway
// database, or skips when the variable is unset.
func newIntegrationHandler(t *testing.T) (*Handler, *mongo.Database) {
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
	database := client.Database(fmt.Sprintf("auth_it_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = database.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return NewHandler(auth.NewStore(database), nil, testSecret, 7*24*time.Hour), database
}

func TestHandleVerifyTokenRejectsDeletedUser(t *testing.T) {
	handler, database := newIntegrationHandler(t)
	ctx := context.Background()

	hash, err := auth.HashPassword("Secret123!")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	users := database.Collection("users")
	result, err := users.InsertOne(ctx, auth.User{Username: "shortlived", PasswordHash: hash, Role: "viewer", CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("insert user failed: %v", err)
	}
	userID := result.InsertedID.(primitive.ObjectID).Hex()

	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: userID, Username: "shortlived", Role: "viewer"}, time.Hour)
	if err != nil {
		t.Fatalf("token issue failed: %v", err)
	}

	verify := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/verify-token", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.HandleVerifyToken(rec, req)
		return rec.Code
	}

	if code := verify(); code != http.StatusOK {
		t.Fatalf("verify with live user status = %d, want 200", code)
	}

	if _, err := users.DeleteOne(ctx, bson.M{"_id": result.InsertedID}); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
	if code := verify(); code != http.StatusUnauthorized {
		t.Fatalf("verify with deleted user status = %d, want 401", code)
	}
}
