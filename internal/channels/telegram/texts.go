package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// User-facing texts. The bot speaks Russian.
const (
	msgInstructions = "Назначим новую последовательность!\nОтправьте сообщение с 2–10 файлами одного типа"

	msgHelpHTML = "<b>Как пользоваться:</b>\n\n" +
		"1. Отправьте медиагруппу - всё то, что вы загружаете файлом/документом (2–10 вложений <b>одинакового</b> типа: фото, видео, аудио, документы).\n" +
		"2. Бот покажет текущий порядок файлов, а вы назначите новую последовательность.\n\n" +
		"<b>Пример:</b> если файлов 3, введите '3 2 1'.\n" +
		"После ввода вы получите файлы в новом порядке одним сообщением, которое остаётся только переслать"

	msgBadGroup       = "Отправьте 2-10 файлов одного типа"
	msgNoSession      = "Сначала отправьте медиагруппу"
	msgSessionExpired = "Сессия устарела, отправьте новую медиагруппу"
	msgBadNumbers     = "Введите только числа, разделенные пробелами"
	msgSendFailed     = "Ошибка при отправке медиагруппы. Попробуйте еще раз"
	msgUnknownCommand = "Некорректная команда. Используйте /help"

	helpButtonText  = "🆘 Помощь"
	resetButtonText = "↩️ Сбросить"
)

// confirmationText announces a finalized group: the received count, the
// current 1-based order, and the reversed order as an example.
func confirmationText(count int) string {
	return fmt.Sprintf(
		"Получено файлов: %d\n\nТекущий порядок: %s\nВведите новую последовательность (например: %s)",
		count, orderSequence(count), reverseSequence(count),
	)
}

func countMismatchText(expected int) string {
	return fmt.Sprintf("Введите числа от 1 до %d через пробел", expected)
}

func rangeText(expected int) string {
	return fmt.Sprintf("Числа должны быть в диапазоне 1–%d", expected)
}

// orderSequence renders "1 2 ... n".
func orderSequence(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.Itoa(i + 1)
	}
	return strings.Join(parts, " ")
}

// reverseSequence renders "n ... 2 1".
func reverseSequence(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.Itoa(n - i)
	}
	return strings.Join(parts, " ")
}
