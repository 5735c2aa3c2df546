package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrEmailNotVerified   ErrCode = "EMAIL_NOT_VERIFIED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrVerificationFailed ErrCode = "VERIFICATION_FAILED"
	ErrTurnstileFailed    ErrCode = "TURNSTILE_FAILED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"
	ErrNotOwner  ErrCode = "NOT_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation         ErrCode = "VALIDATION_ERROR"
	ErrInvalidID          ErrCode = "INVALID_ID"
	ErrInvalidPayload     ErrCode = "INVALID_PAYLOAD"
	ErrSourceRequired     ErrCode = "SOURCE_REQUIRED"
	ErrDifficultyMismatch ErrCode = "DIFFICULTY_SUM_MISMATCH"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Generation ────────────────────────────────────────────────────
	ErrGenerationFailed ErrCode = "GENERATION_FAILED"
	ErrLLMQuota         ErrCode = "LLM_QUOTA_EXCEEDED"
	ErrJobFailed        ErrCode = "JOB_FAILED"

	// ─── Materials ─────────────────────────────────────────────────────
	ErrFileRequired       ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile    ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge       ErrCode = "FILE_TOO_LARGE"
	ErrMaterialNotReady   ErrCode = "MATERIAL_NOT_READY"
	ErrExtractionFailed   ErrCode = "EXTRACTION_FAILED"
	ErrExportNotAvailable ErrCode = "EXPORT_NOT_AVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Nieprawidłowy adres e-mail lub hasło."
	case ErrEmailTaken:
		return "Konto z tym adresem e-mail już istnieje."
	case ErrEmailNotVerified:
		return "Adres e-mail nie został jeszcze potwierdzony."
	case ErrTokenRequired:
		return "Wymagany jest token uwierzytelniający."
	case ErrTokenInvalid:
		return "Token uwierzytelniający jest nieprawidłowy."
	case ErrTokenExpired:
		return "Token uwierzytelniający wygasł."
	case ErrVerificationFailed:
		return "Link weryfikacyjny jest nieprawidłowy lub wygasł."
	case ErrTurnstileFailed:
		return "Weryfikacja antyspamowa nie powiodła się. Odśwież stronę i spróbuj ponownie."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Nie masz uprawnień do tego zasobu."
	case ErrNotOwner:
		return "Ten zasób należy do innego użytkownika."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Walidacja nie powiodła się. Sprawdź wprowadzone dane."
	case ErrInvalidID:
		return "Nieprawidłowy format identyfikatora."
	case ErrInvalidPayload:
		return "Nieprawidłowe dane żądania."
	case ErrSourceRequired:
		return "Podaj dokładnie jedno źródło: tekst lub materiał."
	case ErrDifficultyMismatch:
		return "Suma pytań łatwych, średnich i trudnych musi być równa łącznej liczbie pytań."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Nie znaleziono zasobu."
	case ErrConflict:
		return "Zasób już istnieje."

	// ─── Generation ────────────────────────────────────────────────────
	case ErrGenerationFailed:
		return "Generowanie testu nie powiodło się. Spróbuj ponownie."
	case ErrLLMQuota:
		return "Limit zapytań do modelu został przekroczony. Spróbuj ponownie później."
	case ErrJobFailed:
		return "Zadanie zakończyło się błędem. Prześlij żądanie ponownie."

	// ─── Materials ─────────────────────────────────────────────────────
	case ErrFileRequired:
		return "Wymagane jest przesłanie pliku."
	case ErrUnsupportedFile:
		return "Nieobsługiwany typ pliku."
	case ErrFileTooLarge:
		return "Rozmiar pliku przekracza dozwolony limit."
	case ErrMaterialNotReady:
		return "Materiał nie został jeszcze przetworzony."
	case ErrExtractionFailed:
		return "Nie udało się odczytać treści dokumentu."
	case ErrExportNotAvailable:
		return "Eksport nie jest jeszcze gotowy."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Zbyt wiele żądań. Spróbuj ponownie za chwilę."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Wystąpił wewnętrzny błąd serwera."
	default:
		return "Wystąpił nieoczekiwany błąd."
	}
}
