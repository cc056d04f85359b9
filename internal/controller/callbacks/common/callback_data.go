package common

// Префиксы callback data. Telegram ограничивает callback data 64 байтами,
// поэтому в данных передаётся не больше одного uuid
const (
	CbBackToMain = "back_to_main"
	CbNoop       = "noop"

	CbProfile          = "profile"
	CbSetEmail         = "set_email"
	CbBecomeProfessor  = "become_prof"
	CbConfirmProfessor = "become_prof_ok"

	CbGymsPage     = "gyms_page:"      // gyms_page:0
	CbMyGyms       = "my_gyms:"        // my_gyms:<page>
	CbNewGym       = "new_gym"         // создание зала
	CbGymView      = "gym_view:"       // gym_view:<gym>
	CbGymJoin      = "gym_join:"       // gym_join:<gym>
	CbJoinPlain    = "join_plain:"     // join_plain:<gym> - без тренера
	CbJoinWith     = "join_with:"      // join_with:<professor> - зал берётся у тренера
	CbGymInvite    = "gym_invite:"     // gym_invite:<gym>
	CbGymMembers   = "gym_members:"    // gym_members:<gym>
	CbGymRequests  = "gym_requests:"   // gym_requests:<gym>
	CbGymEdit      = "gym_edit:"       // gym_edit:<gym>
	CbGymEditName  = "gym_edit_name:"  // gym_edit_name:<gym>
	CbGymEditAddr  = "gym_edit_addr:"  // gym_edit_addr:<gym>
	CbGymEditPhone = "gym_edit_phone:" // gym_edit_phone:<gym>
	CbGymDelete    = "gym_delete:"     // gym_delete:<gym>
	CbGymDeleteOK  = "gym_delete_ok:"  // gym_delete_ok:<gym>

	CbRequests    = "requests"     // ожидающие заявки пользователя
	CbRequestsAll = "requests_all" // вся история
	CbReqView     = "req_view:"    // req_view:<request>
	CbReqAccept   = "req_accept:"  // req_accept:<request>
	CbReqReject   = "req_reject:"  // req_reject:<request>

	CbInbox    = "inbox"
	CbMsgRead  = "msg_read:"  // msg_read:<message>
	CbMsgWrite = "msg_write:" // msg_write:<user>
	CbMsgConv  = "msg_conv:"  // msg_conv:<user>

	CbRoutines        = "routines"
	CbMyStudents      = "my_students"
	CbRoutineView     = "routine_view:"      // routine_view:<routine>
	CbRoutineNew      = "routine_new:"       // routine_new:<student>
	CbRoutineEdit     = "routine_edit:"      // routine_edit:<routine>
	CbRoutineDelete   = "routine_delete:"    // routine_delete:<routine>
	CbRoutineDeleteOK = "routine_delete_ok:" // routine_delete_ok:<routine>
	CbStudentRoutines = "student_routines:"  // student_routines:<student>
)
