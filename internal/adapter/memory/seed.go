package memory

import (
	"context"

	"eventsx/internal/domain"
)

// seedCatalog mirrors migrations/00002_seed_events.sql in the postgres adapter.
var seedCatalog = []domain.Event{
	{Name: "Salt & Pepper Supper Club", Category: "Food", Date: "Jan 3, 2026, 10:00 PM", Location: "London", Cost: 65, Image: "event1_salt_pepper_supper_club.jpeg"},
	{Name: "Spiritus Natalis", Category: "Music / Culture", Date: "Jan 1, 2026, 9:00 PM", Location: "Porto", Cost: 70, Image: "event2_spiritus_natalis.jpeg"},
	{Name: "Carrossel Veneziano", Category: "Leisure", Date: "Jan 1, 2026, 12:00 AM", Location: "Cascais", Cost: 40, Image: "event3_carrossel_veneziano.jpeg"},
	{Name: "Diverlândia", Category: "Business", Date: "Jan 1, 2026, 3:00 PM", Location: "Lisbon", Cost: 150, Image: "event4_Diverlândia.jpg"},
	{Name: "Carmen Miranda | Teatro Politeama", Category: "Culture", Date: "Jan 1, 2026, 9:00 PM", Location: "Lisbon", Cost: 95, Image: "event5_carmen_miranda.jpg"},
	{Name: "Jonas & Lander | Jardins do Bombarda", Category: "Music", Date: "Dec 31, 2025, 12:00 AM", Location: "Lisbon", Cost: 120, Image: "event6_jonas_lander.jpg"},
	{Name: "Ano Novo no Lux | Lux Frágil", Category: "Leisure", Date: "Dec 31, 2025, 12:00 AM", Location: "Lisbon", Cost: 130, Image: "event7_ano_novo_no_lux.jpg"},
	{Name: "The Great Mona | Mona Verde", Category: "Leisure", Date: "Jan 1, 2026, 8:00 PM", Location: "Lisbon", Cost: 75, Image: "event8_the_great_mona.jpeg"},
	{Name: "Concerto de Ano Novo | Belém", Category: "Music", Date: "Jan 1, 2026, 11:00 AM", Location: "Lisbon", Cost: 180, Image: "event9_concerto_de_ano_novo.jpeg"},
	{Name: "Queen Sheeks Jamaican Pop-Up", Category: "Food", Date: "Jan 2, 2026, 12:00 PM", Location: "London", Cost: 65, Image: "event10_queen_sheeks_jamaican_popup.avif"},
	{Name: "Spanish Beginner Course", Category: "Business", Date: "Jan 19, 2026, 7:30 PM", Location: "London", Cost: 200, Image: "event15_spanish_beginner_course.png"},
	{Name: "Italian Beginner Course A1", Category: "Business", Date: "Jan 20, 2026, 6:00 PM", Location: "London", Cost: 220, Image: "event16_italian_beginner_course_a1.jpg"},
	{Name: "The Gladwin Brothers' Burns Night", Category: "Food / Nightlife", Date: "Jan 24, 2026, 8:00 PM", Location: "London", Cost: 75, Image: "event17_burns_night.webp"},
	{Name: "DOUGH-IT YOURSELF Pizza Class", Category: "Food", Date: "Feb 13, 2026, 9:00 PM", Location: "London", Cost: 120, Image: "event19_pizza_making_class.jpeg"},
	{Name: "Plant Based Food Fest London", Category: "Food / Nightlife", Date: "Feb 14, 2026, 10:00 AM", Location: "London", Cost: 180, Image: "event20_plant_based_food_fest.jpg"},
}

// NewSeeded creates an in-memory database holding the default event catalog.
func NewSeeded() *DB {
	db := New()
	for _, e := range seedCatalog {
		_, _ = db.AddEvent(context.Background(), e)
	}
	return db
}
