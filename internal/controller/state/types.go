package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Создание и редактирование зала
	StateCreateGymName    UserState = "create_gym_name"
	StateCreateGymAddress UserState = "create_gym_address"
	StateCreateGymPhone   UserState = "create_gym_phone"
	StateEditGymName      UserState = "edit_gym_name"
	StateEditGymAddress   UserState = "edit_gym_address"
	StateEditGymPhone     UserState = "edit_gym_phone"

	// Заявки
	StateEnteringRequestMessage UserState = "entering_request_message"
	StateEnteringInviteUsername UserState = "entering_invite_username"

	// Сообщения
	StateComposingMessage UserState = "composing_message"

	// Программы тренировок
	StateCreateRoutineName        UserState = "create_routine_name"
	StateCreateRoutineDescription UserState = "create_routine_description"
	StateEditRoutineDescription   UserState = "edit_routine_description"

	// Профиль
	StateEnteringEmail UserState = "entering_email"
)

// Ключи временных данных диалога
const (
	KeyGymID       = "gym_id"
	KeyRequestType = "request_type"
	KeyRole        = "role"
	KeyProfessorID = "professor_id"
	KeyRecipientID = "recipient_id"
	KeyStudentID   = "student_id"
	KeyRoutineID   = "routine_id"
	KeyName        = "name"
	KeyAddress     = "address"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
