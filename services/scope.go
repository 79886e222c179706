package services

// Scope adalah konteks request yang immutable: semua operasi core menerima
// scope eksplisit, tidak ada state tenant global. Lookup lintas tenant selalu
// berakhir not found.
type Scope struct {
	TenantID uint
	UserID   uint
}
