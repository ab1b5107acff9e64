package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"booklib/pkg/database"
	"booklib/pkg/models"
)

const (
	loanDuration = 72 * time.Hour
	loanPrice    = 5.00
	tokenTTL     = 24 * time.Hour
)

var db *gorm.DB

func main() {
	log.Println("Starting library service...")

	db = database.InitLibraryDB()
	seedData()

	server := buildRouter()

	port := getEnv("PORT", "8080")
	log.Printf("Library service starting on :%s", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/auth/register", registerHandler)
	r.POST("/auth/login", loginHandler)

	r.GET("/api/books", getBooks)
	r.GET("/api/books/:id", getBook)
	r.GET("/api/books/category", getBooksByCategory)
	r.GET("/api/books/categories", getCategories)
	r.GET("/api/books/search", searchBooks)

	authed := r.Group("/", authRequired())
	authed.GET("/api/users/me", getMe)
	authed.GET("/api/loans/my-books", getMyBooks)
	authed.GET("/api/loans/check/:bookId", checkLoan)
	authed.POST("/api/loans/rent/:bookId", rentBook)

	admin := r.Group("/", authRequired(), adminRequired())
	admin.POST("/api/books", createBook)
	admin.PUT("/api/books/:id", updateBook)
	admin.DELETE("/api/books/:id", deleteBook)
	admin.GET("/api/loans/admin/active", getActiveLoans)
	admin.GET("/api/admin/stats", getStats)
	admin.GET("/api/admin/users", getUsers)
	admin.DELETE("/api/admin/users/:id", deleteUser)

	r.GET("/manage/health", healthCheck)

	return r
}

// ---- auth ----

type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(getEnv("JWT_SECRET", "dev_secret_change_me"))
}

func generateToken(username, role string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			Subject:   username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func parseToken(tokenString string) (*tokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtSecret(), nil
		})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := parseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func registerHandler(c *gin.Context) {
	var request struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error(), "code": "OTHER"})
		return
	}

	if len(request.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Password must be at least 8 characters",
			"code":    "WEAK_PASSWORD",
		})
		return
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", request.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Email is already in use",
			"code":    "EMAIL_TAKEN",
		})
		return
	}
	db.Model(&models.User{}).Where("username = ?", request.Username).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Username is already taken",
			"code":    "USERNAME_TAKEN",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := models.User{
		Username: request.Username,
		Email:    request.Email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully!"})
}

func loginHandler(c *gin.Context) {
	var request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var user models.User
	if err := db.Where("username = ?", request.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := generateToken(user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role})
}

func getMe(c *gin.Context) {
	var user models.User
	if err := db.Where("username = ?", c.GetString("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ---- books ----

func getBooks(c *gin.Context) {
	var books []models.Book
	if err := db.Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, books)
}

func getBook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.JSON(http.StatusOK, book)
}

func getBooksByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}
	var books []models.Book
	if err := db.Where("LOWER(category) = LOWER(?)", category).Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, books)
}

func getCategories(c *gin.Context) {
	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func searchBooks(c *gin.Context) {
	keyword := c.Query("keyword")
	var books []models.Book
	pattern := "%" + keyword + "%"
	if err := db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern).Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, books)
}

func createBook(c *gin.Context) {
	var book models.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book.ID = 0
	book.Available = true
	if err := db.Create(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create book"})
		return
	}
	c.JSON(http.StatusOK, book)
}

func updateBook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	var updated models.Book
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book.Title = updated.Title
	book.Author = updated.Author
	book.Category = updated.Category
	book.Isbn = updated.Isbn
	book.Description = updated.Description
	book.Available = updated.Available
	if err := db.Save(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update book"})
		return
	}
	c.JSON(http.StatusOK, book)
}

func deleteBook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	result := db.Delete(&models.Book{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.Status(http.StatusOK)
}

// ---- loans ----

// expireLoans flips loans whose window has passed and frees their books.
// Expiry is otherwise a live computation against the expiry date, so this
// only keeps the stored availability flag in line.
func expireLoans() {
	var expired []models.Loan
	db.Where("is_active = ? AND expiry_date <= ?", true, time.Now()).Find(&expired)
	for _, loan := range expired {
		db.Model(&models.Loan{}).Where("id = ?", loan.ID).Update("is_active", false)
		db.Model(&models.Book{}).Where("id = ?", loan.BookID).Update("available", true)
	}
}

func currentUser(c *gin.Context) (models.User, bool) {
	var user models.User
	if err := db.Where("username = ?", c.GetString("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return models.User{}, false
	}
	return user, true
}

func rentBook(c *gin.Context) {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var book models.Book
	if err := db.First(&book, bookID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	expireLoans()

	var activeCount int64
	db.Model(&models.Loan{}).
		Where("user_id = ? AND is_active = ? AND expiry_date > ?", user.ID, true, time.Now()).
		Count(&activeCount)
	if activeCount >= 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Limit Reached: You can only have 1 active book at a time.",
			"code":    "LOAN_LIMIT",
		})
		return
	}

	now := time.Now()
	loan := models.Loan{
		LoanUid:    uuid.New().String(),
		UserID:     user.ID,
		BookID:     book.ID,
		LoanDate:   now,
		ExpiryDate: now.Add(loanDuration),
		IsActive:   true,
		Price:      loanPrice,
	}
	if err := db.Create(&loan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create loan"})
		return
	}
	db.Model(&book).Update("available", false)

	db.Preload("Book").Preload("User").First(&loan, loan.ID)
	c.JSON(http.StatusOK, loan)
}

func getMyBooks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	expireLoans()

	var loans []models.Loan
	err := db.Preload("Book").
		Where("user_id = ? AND is_active = ? AND expiry_date > ?", user.ID, true, time.Now()).
		Find(&loans).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loans)
}

func checkLoan(c *gin.Context) {
	bookID, err := strconv.Atoi(c.Param("bookId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var count int64
	db.Model(&models.Loan{}).
		Where("user_id = ? AND book_id = ? AND is_active = ? AND expiry_date > ?",
			user.ID, bookID, true, time.Now()).
		Count(&count)
	c.JSON(http.StatusOK, count > 0)
}

func getActiveLoans(c *gin.Context) {
	expireLoans()

	var loans []models.Loan
	err := db.Preload("Book").Preload("User").
		Where("is_active = ? AND expiry_date > ?", true, time.Now()).
		Find(&loans).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loans)
}

// ---- admin ----

func getStats(c *gin.Context) {
	var totalBooks, totalUsers, activeLoans int64
	db.Model(&models.Book{}).Count(&totalBooks)
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.Loan{}).
		Where("is_active = ? AND expiry_date > ?", true, time.Now()).
		Count(&activeLoans)

	c.JSON(http.StatusOK, gin.H{
		"totalBooks":  totalBooks,
		"totalUsers":  totalUsers,
		"activeLoans": activeLoans,
	})
}

func getUsers(c *gin.Context) {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func deleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.Status(http.StatusOK)
}

func healthCheck(c *gin.Context) {
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

// ---- seed ----

func seedData() {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(getEnv("ADMIN_PASSWORD", "mypassword123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash admin password: %v", err)
			return
		}
		admin := models.User{
			Username: "admin1",
			Email:    "admin1@library.com",
			Password: string(hash),
			Role:     models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created")
		}
	}

	categories := []models.Category{
		{Name: "Fiction", Description: "Novels and short stories"},
		{Name: "Science", Description: "Popular science and reference"},
		{Name: "History", Description: "Historical works and biographies"},
		{Name: "Fantasy", Description: "Fantasy and adventure"},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := db.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err := db.Create(&cat).Error; err != nil {
				log.Printf("Failed to create category %s: %v", cat.Name, err)
			}
		}
	}

	db.Model(&models.Book{}).Count(&count)
	if count == 0 {
		books := []models.Book{
			{Title: "1984", Author: "George Orwell", Category: "Fiction", Isbn: "978-0451524935", Description: "A dystopian classic.", Available: true},
			{Title: "Animal Farm", Author: "George Orwell", Category: "Fiction", Isbn: "978-0452284241", Description: "A farmyard fable.", Available: true},
			{Title: "The Art of War", Author: "Sun Tzu", Category: "History", Isbn: "978-1599869773", Description: "Ancient treatise on strategy.", Available: true},
			{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Category: "Fantasy", Isbn: "978-0547928210", Description: "First part of The Lord of the Rings.", Available: true},
		}
		for _, book := range books {
			if err := db.Create(&book).Error; err != nil {
				log.Printf("Failed to create book %s: %v", book.Title, err)
			}
		}
		log.Println("Book catalog seeded")
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
