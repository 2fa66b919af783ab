package storage

// GetOrCreateAPIKeySettings returns the user's settings row, creating an
// empty one on first access.
func (r *Repository) GetOrCreateAPIKeySettings(userID string) (*APIKeySettings, error) {
	var settings APIKeySettings
	err := r.db.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	settings = APIKeySettings{UserID: userID}
	if err := r.db.Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *Repository) UpdateAPIKeySettings(settings *APIKeySettings) error {
	return r.db.Save(settings).Error
}
