package dal

import "time"

type (
	User struct {
		ID               string
		Email            string
		PasswordHash     string
		SecurityQuestion string
		SecurityAnswer   string
		CreatedAt        time.Time
	}

	DictionaryEntry struct {
		ID              string
		Word            string
		ShortDefinition string
		Category        string
		PartOfSpeech    string
	}

	VocabList struct {
		ID        string
		UserID    string
		Name      string
		IsHistory bool
		CreatedAt time.Time
	}

	WordInList struct {
		ID         string
		UserID     string
		ListID     string
		Word       string
		Definition string
		Categories string
		CreatedAt  time.Time
	}
)
