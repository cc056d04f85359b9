package formatting

func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeRequests возвращает правильное склонение слова "заявка"
func PluralizeRequests(count int) string {
	return pluralize(count, "заявка", "заявки", "заявок")
}

// PluralizeStudents возвращает правильное склонение слова "ученик"
func PluralizeStudents(count int) string {
	return pluralize(count, "ученик", "ученика", "учеников")
}

// PluralizeMessages возвращает правильное склонение слова "сообщение"
func PluralizeMessages(count int) string {
	return pluralize(count, "сообщение", "сообщения", "сообщений")
}
