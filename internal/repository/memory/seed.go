package memory

import (
	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

const imageHost = "https://hebbkx1anhila5yf.public.blob.vercel-storage.com/"

// SeedProducts is the wholesale catalog a fresh process starts with. Prices
// are in Naira.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Professional Hair Styling Kit", Description: "Complete hair styling set with blow dryer and accessories", Price: naira(45000), OriginalPrice: naira(65000), Image: imageHost + "photo_2024-10-16_12-33-09.jpg-IPRhwbFmwbfy5hPP6CVx7EQ78ogix5.jpeg", Category: "Hair Care"},
		{ID: 2, Name: "Body Scrub Collection", Description: "4-piece body scrub set with natural extracts", Price: naira(18000), OriginalPrice: naira(25000), Image: imageHost + "photo_2024-10-16_12-28-51.jpg-cnDfFjQjApICrrOUIBcCxc1GgeTXAa.jpeg", Category: "Body Care"},
		{ID: 3, Name: "Professional Skincare Machine", Description: "Advanced skincare treatment device with digital display", Price: naira(150000), OriginalPrice: naira(200000), Image: imageHost + "photo_2024-11-27_04-25-48-400x533.jpg-h9fiVf1ossfG16GyFQ95RTj605hPod.jpeg", Category: "Professional"},
		{ID: 4, Name: "3-Tier Beauty Cart", Description: "Rolling storage cart for beauty products and tools", Price: naira(23000), OriginalPrice: naira(33000), Image: imageHost + "photo_2024-11-26_00-10-28-400x533.jpg-yCibO7Cr89XqlxrbYH0l5ZT52WnUT6.jpeg", Category: "Storage"},
		{ID: 5, Name: "Extra Virgin Argan Oil", Description: "100% Pure certified organic argan oil", Price: naira(12500), OriginalPrice: naira(17500), Image: imageHost + "photo_2024-10-16_12-20-35.jpg-6AlnG0mNGJk84MXJ8JJ99kNJYR9A45.jpeg", Category: "Oils"},
		{ID: 6, Name: "Cordless UV/LED Nail Lamp", Description: "Professional nail curing lamp with timer", Price: naira(20000), OriginalPrice: naira(30000), Image: imageHost + "photo_2024-11-25_23-59-37-400x533.jpg-qDyorXKehsLWW6Teyv6nVkRQZJ3FZF.jpeg", Category: "Nail Care"},
		{ID: 7, Name: "Body Scrub Variety Pack", Description: "Premium body scrubs in multiple scents", Price: naira(15000), OriginalPrice: naira(22500), Image: imageHost + "photo_2024-10-16_12-28-51.jpg-S7QXrq4Ki5mYYTXUWIUCDJTtYhO37v.jpeg", Category: "Body Care"},
		{ID: 8, Name: "Electric Nail Drill Kit", Description: "Professional manicure tool with multiple attachments", Price: naira(25000), OriginalPrice: naira(40000), Image: imageHost + "photo_2024-11-25_23-54-09-400x533.jpg-oX2yLt834tKhGzVUWfncPUwWZNz4sF.jpeg", Category: "Nail Care"},
		{ID: 9, Name: "Cordless UV Nail Lamp Pro", Description: "Advanced cordless nail lamp with LED display", Price: naira(30000), OriginalPrice: naira(45000), Image: imageHost + "photo_2024-11-25_23-59-37-400x533.jpg-0MbKGvdZTukgvIYbKP49YsRSaBvOZp.jpeg", Category: "Nail Care"},
		{ID: 10, Name: "Therapeutic Neck Massage Cushion", Description: "Ergonomic neck massage pillow for relaxation and pain relief", Price: naira(16500), OriginalPrice: naira(25000), Image: imageHost + "photo_2024-11-28_01-21-03-1-400x533.jpg-VTo2LNjRPizipJrGdhxrVAB9PKWH1Q.jpeg", Category: "Wellness"},
		{ID: 11, Name: "Professional Wax Warmer", Description: "Single wax warmer with temperature control for professional use", Price: naira(40000), OriginalPrice: naira(55000), Image: imageHost + "photo_2024-11-27_04-27-23-400x533.jpg-zPrd8im5pwHzRkSOPZwxj1zDFpVA91.jpeg", Category: "Professional"},
		{ID: 12, Name: "Disposable Hair Caps (100pcs)", Description: "Blue disposable shower caps for beauty treatments", Price: naira(6500), OriginalPrice: naira(10000), Image: imageHost + "photo_2024-11-28_00-46-20-400x500.jpg-CNvHV3JySonQcL1k9iXKhc912RRs4p.jpeg", Category: "Accessories"},
		{ID: 13, Name: "NTFS Facial Steamer", Description: "Professional facial steamer for deep pore cleansing", Price: naira(45000), OriginalPrice: naira(65000), Image: imageHost + "photo_2024-11-28_00-38-02-400x533.jpg-q0ndwJ9BIZJzmDP71mSFAFieIHLLB8.jpeg", Category: "Skincare"},
		{ID: 14, Name: "Practice Mannequin Head", Description: "Professional training head for makeup and beauty practice", Price: naira(23000), OriginalPrice: naira(35000), Image: imageHost + "photo_2024-11-28_01-25-18-400x533.jpg-BBtRvrUhuKr0ovZwc54qCDM2H3xKRh.jpeg", Category: "Training"},
		{ID: 15, Name: "Olive Hair Care Set", Description: "Large bottles of olive shampoo and conditioner for salon use", Price: naira(20000), OriginalPrice: naira(30000), Image: imageHost + "photo_2024-11-28_01-29-30-400x533.jpg-UcnvA3y5Z1NSmkYPur5TVpz4FJx9Sk.jpeg", Category: "Hair Care"},
		{ID: 16, Name: "Luxury Pedicure Chair", Description: "Professional spa pedicure chair with massage function", Price: naira(650000), OriginalPrice: naira(850000), Image: imageHost + "photo_2024-11-28_01-27-04-400x533.jpg-4R0YL8rPLAhc9KkKRHE27M9FUlSY1C.jpeg", Category: "Professional"},
		{ID: 17, Name: "Memory Foam Gel Pillow", Description: "Cooling gel memory foam pillow for better sleep", Price: naira(25000), OriginalPrice: naira(37500), Image: imageHost + "photo_2024-11-28_01-15-50-400x533.jpg-EL172c94M8phwA8WqjGmiPKROUxppQ.jpeg", Category: "Wellness"},
		{ID: 18, Name: "Yoni Steam Seat Kit", Description: "Complete women's wellness steam seat with remote control", Price: naira(80000), OriginalPrice: naira(115000), Image: imageHost + "photo_2024-11-28_01-10-06-1-400x533.jpg-zUOk9SJYmF7mcgVC4YxVZCB2SwxckJ.jpeg", Category: "Wellness"},
	}
}

func naira(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount)
}
