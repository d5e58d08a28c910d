package main

import (
	"context"
	"log"
	"os"

	"pcru-chatbot-be/internal/entity"
	"pcru-chatbot-be/internal/model"
	"pcru-chatbot-be/internal/repository/implementation"
	"pcru-chatbot-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	color.Cyan("Seeding lexicon...")
	seedLexicon(db)

	color.Cyan("Seeding organizations and categories...")
	officerId, admissionsId, dormId := seedDirectory(db)

	color.Cyan("Seeding knowledge base...")
	seedKnowledgeBase(ctx, db, officerId, admissionsId, dormId)

	color.Cyan("Seeding synonyms...")
	seedSynonyms(db, map[string]string{
		"ลงทะเบียนเรียน": "สมัครเรียน",
		"หอใน":           "หอพัก",
		"scholarship":    "ทุนการศึกษา",
	})

	color.Green("✅ Seed completed.")
}

func seedLexicon(db *gorm.DB) {
	stopwords := []model.Stopword{
		{Word: "ยังไง"}, {Word: "อย่างไร"}, {Word: "ครับ"}, {Word: "ค่ะ"}, {Word: "คะ"},
		{Word: "ที่"}, {Word: "ของ"}, {Word: "และ"}, {Word: "หรือ"}, {Word: "บ้าง"},
	}
	negations := []model.NegativeKeyword{
		{Word: "ไม่", IsActive: true},
		{Word: "ไม่เอา", IsActive: true},
		{Word: "ไม่ต้องการ", IsActive: true},
		{Word: "ไม่ใช่", IsActive: true},
		{Word: "ไม่สนใจ", IsActive: true},
	}
	similarities := []model.SemanticSimilarity{
		{Word1: "หอพัก", Word2: "ที่พัก", Score: 0.9},
		{Word1: "สมัครเรียน", Word2: "รับสมัคร", Score: 0.8},
		{Word1: "ทุน", Word2: "ทุนการศึกษา", Score: 0.85},
		{Word1: "ค่าเทอม", Word2: "ค่าธรรมเนียม", Score: 0.9},
	}

	insert(db, "stopwords", &stopwords)
	insert(db, "negative_keywords", &negations)

	var existing int64
	db.Model(&model.SemanticSimilarity{}).Count(&existing)
	if existing == 0 {
		insert(db, "semantic_similarities", &similarities)
	} else {
		color.Yellow("semantic_similarities already populated, skipping")
	}
}

func insert(db *gorm.DB, table string, rows interface{}) {
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error; err != nil {
		color.Red("Failed to seed %s: %v", table, err)
		return
	}
	color.Green("Seeded %s", table)
}

func seedDirectory(db *gorm.DB) (officerId, admissionsId, dormId uint) {
	org := model.Organization{Name: "กองบริการการศึกษา", Description: "งานรับสมัครและทะเบียน"}
	if err := db.Where(model.Organization{Name: org.Name}).FirstOrCreate(&org).Error; err != nil {
		color.Red("Failed to seed organization: %v", err)
		os.Exit(1)
	}

	officer := model.Officer{OrgId: org.Id, Name: "เจ้าหน้าที่รับสมัคร"}
	if err := db.Where(model.Officer{OrgId: org.Id, Name: officer.Name}).FirstOrCreate(&officer).Error; err != nil {
		color.Red("Failed to seed officer: %v", err)
		os.Exit(1)
	}

	admissions := model.Category{Name: "รับสมัครนักศึกษา"}
	if err := db.Where(model.Category{Name: admissions.Name}).FirstOrCreate(&admissions).Error; err != nil {
		color.Red("Failed to seed category: %v", err)
		os.Exit(1)
	}
	dorm := model.Category{Name: "หอพัก"}
	if err := db.Where(model.Category{Name: dorm.Name}).FirstOrCreate(&dorm).Error; err != nil {
		color.Red("Failed to seed category: %v", err)
		os.Exit(1)
	}

	contacts := []model.CategoryContact{
		{CategoryId: admissions.Id, Contact: "056-717-100 ต่อ 1111"},
		{CategoryId: dorm.Id, Contact: "056-717-100 ต่อ 2222"},
	}
	for _, c := range contacts {
		c := c
		db.Where(model.CategoryContact{CategoryId: c.CategoryId, Contact: c.Contact}).FirstOrCreate(&c)
	}

	return officer.Id, admissions.Id, dorm.Id
}

func seedKnowledgeBase(ctx context.Context, db *gorm.DB, officerId, admissionsId, dormId uint) {
	var count int64
	db.Model(&model.QuestionAnswer{}).Count(&count)
	if count > 0 {
		color.Yellow("question_answers already populated (%d rows), skipping", count)
		return
	}

	repo := implementation.NewQuestionAnswerRepository(db)
	records := []*entity.QuestionAnswer{
		{
			Title:      "สมัครเรียนปริญญาตรีทำอย่างไร",
			Text:       "ผู้สมัครกรอกใบสมัครผ่านระบบรับสมัครออนไลน์ของมหาวิทยาลัย แล้วชำระค่าสมัครภายในกำหนด",
			OfficerId:  &officerId,
			CategoryId: &admissionsId,
			Keywords:   []string{"สมัครเรียน", "ปริญญาตรี", "รับสมัคร"},
		},
		{
			Title:      "ทุนการศึกษาสำหรับนักศึกษาใหม่",
			Text:       "มหาวิทยาลัยมีทุนการศึกษาสำหรับนักศึกษาใหม่ที่มีผลการเรียนดีและขาดแคลนทุนทรัพย์",
			OfficerId:  &officerId,
			CategoryId: &admissionsId,
			Keywords:   []string{"ทุนการศึกษา", "นักศึกษาใหม่"},
		},
		{
			Title:      "หอพักในมหาวิทยาลัย",
			Text:       "หอพักในมหาวิทยาลัยมีทั้งหอพักชายและหอพักหญิง ติดต่อจองได้ที่งานหอพัก",
			OfficerId:  &officerId,
			CategoryId: &dormId,
			Keywords:   []string{"หอพัก", "ที่พัก"},
		},
	}

	for _, qa := range records {
		if err := repo.Create(ctx, qa); err != nil {
			color.Red("Failed to seed %q: %v", qa.Title, err)
			continue
		}
		color.Green("Seeded question %d: %s", qa.Id, qa.Title)
	}
}

// seedSynonyms links input words to existing keywords; unknown targets are skipped.
func seedSynonyms(db *gorm.DB, synonyms map[string]string) {
	for input, target := range synonyms {
		var kw model.Keyword
		if err := db.Where("keyword_text = ?", target).First(&kw).Error; err != nil {
			color.Yellow("Keyword %q not found, skipping synonym %q", target, input)
			continue
		}
		row := model.KeywordSynonym{InputWord: input, TargetKeywordId: kw.Id, IsActive: true}
		if err := db.Where(model.KeywordSynonym{InputWord: input, TargetKeywordId: kw.Id}).FirstOrCreate(&row).Error; err != nil {
			color.Red("Failed to seed synonym %q: %v", input, err)
		}
	}
}
