package dataset

// Tool identifiers the assistant under test is expected to emit.
const (
	ToolFlightSchedule   = "flight_schedule"
	ToolAddCalendarEvent = "add_calendar_event"
	ToolGetCalendarEvent = "get_calendar_events"
	ToolSearchMusic      = "search_music"
	ToolCreateNote       = "create_note"
	ToolSearchNotes      = "search_notes"
	ToolNone             = "no_tool_available"
)

// AllTools lists every tool id in a fixed order, used when prompting the
// model under test.
var AllTools = []string{
	ToolFlightSchedule,
	ToolAddCalendarEvent,
	ToolGetCalendarEvent,
	ToolSearchMusic,
	ToolCreateNote,
	ToolSearchNotes,
	ToolNone,
}

// Top-level category names accepted by Generate.
const (
	CategoryFlights  = "flights"
	CategoryCalendar = "calendar"
	CategoryMusic    = "music"
	CategoryNotes    = "notes"
	CategoryNoTool   = "no_tool"
)

// AllCategories in generation order. The order is part of the deterministic
// generation contract and must not change between releases.
var AllCategories = []string{
	CategoryFlights,
	CategoryCalendar,
	CategoryMusic,
	CategoryNotes,
	CategoryNoTool,
}

// Default share of the requested count per category. The no_tool category
// takes whatever integer rounding leaves over.
var categoryWeights = map[string]float64{
	CategoryFlights:  0.30,
	CategoryCalendar: 0.30,
	CategoryMusic:    0.15,
	CategoryNotes:    0.14,
}

var flightTemplates = []string{
	"Найди рейсы из {from_city} в {to_city} на {date}",
	"Покажи расписание из {from_city} в {to_city} {date}",
	"Когда летит самолет из {from_city} в {to_city} {date}",
	"Как добраться из {from_city} в {to_city} {date}",
	"Есть ли рейсы {from_city} - {to_city} на {date}",
	"Хочу полететь из {from_city} в {to_city} {date}",
	"Мне нужно в {to_city} из {from_city} {date}",
	"Поищи билеты из {from_city} в {to_city} на {date}",
	"Какие самолёты летают из {from_city} в {to_city} {date}",
	"Покажи авиарейсы {from_city} - {to_city} {date}",
	"Мне надо срочно в {to_city} из {from_city}, что есть на {date}",
	"Посмотри пожалуйста рейсы из {from_city} в {to_city} на {date}",
	"Когда можно улететь из {from_city} в {to_city}, интересует {date}",
	"Проверь расписание самолётов {from_city} - {to_city} на {date}",
	"Найди авиабилеты из {from_city} в {to_city} на дату {date}",
	"Покажи самолёты из {from_city} в {to_city} {date}",
	"Когда летят из {from_city} в {to_city} {date}",
	"Рейсы из {from_city} в {to_city} {date}",
	"Самолёты из {from_city} в {to_city} {date}",
	"Что есть из {from_city} в {to_city} на {date}",
}

var calendarAddTemplates = []string{
	"Добавь встречу {description} на {date}",
	"Запиши в календарь {description} {date}",
	"Создай событие {description} на {date}",
	"Поставь напоминание {description} {date}",
	"Запланируй {description} на {date}",
	"Мне нужно {description} {date}, добавь в календарь",
	"Создай событие: {description}, дата {date}",
	"Напомни мне про {description} {date}",
	"У меня будет {description} {date}, запиши пожалуйста",
	"Добавь в расписание {description} на {date}",
	"Поставь в календарь {description}, это будет {date}",
	"Зафиксируй событие {description} на дату {date}",
}

var calendarGetTemplates = []string{
	"Что у меня запланировано на {date}",
	"Покажи события на {date}",
	"Какие встречи у меня {date}",
	"Что в календаре на {date}",
	"Что у меня {date}",
	"Какие планы на {date}",
	"Покажи расписание на {date}",
	"Что запланировано {date}",
	"Посмотри что у меня в календаре на {date}",
	"Какие события у меня намечены на {date}",
	"Проверь мои встречи на {date}",
	"Что у меня по расписанию {date}",
}

var musicTemplates = []string{
	"Найди песню {query}",
	"Поищи трек {query}",
	"Включи {query}",
	"Найди музыку {query}",
	"Хочу послушать {query}",
	"Поставь {query}",
	"Найди мне {query}",
	"Поиск песни {query}",
	"Найди в Яндекс Музыке {query}",
	"Поищи трек под названием {query}",
	"Мне нужна песня {query}",
	"Найди композицию {query}",
}

var noteCreateTemplates = []string{
	"Создай заметку: {content}",
	"Запиши заметку {content}",
	"Сохрани заметку: {content}",
	"Добавь заметку {content}",
	"Запиши: {content}",
	"Сделай заметку {content}",
	"Сохрани: {content}",
	"Заметка: {content}",
	"Мне нужно запомнить: {content}",
	"Создай новую заметку с текстом {content}",
}

var noteSearchTemplates = []string{
	"Найди заметку про {query}",
	"Поищи заметку {query}",
	"Покажи заметки про {query}",
	"Где заметка про {query}",
	"Найди мою заметку {query}",
	"Поиск заметки {query}",
	"Покажи заметку {query}",
	"Найди все заметки связанные с {query}",
}

var noToolTemplates = []string{
	"Привет",
	"Здравствуй",
	"Добрый день",
	"Как дела?",
	"Что ты умеешь?",
	"Помоги мне",
	"Кто ты?",
	"Расскажи о себе",
	"Какая погода сегодня?",
	"Сколько будет 2 + 2?",
	"Расскажи анекдот",
	"Спасибо",
	"Пока",
	"Найди поезд из Москвы в Питер",
	"Покажи рейсы в Париж",
}

var cities = []string{
	"Москва", "Санкт-Петербург", "Казань", "Екатеринбург",
	"Новосибирск", "Сочи", "Владивосток", "Калининград",
	"Красноярск", "Иркутск", "Хабаровск", "Краснодар",
	"Самара", "Уфа", "Челябинск", "Омск",
	"Ростов-на-Дону", "Нижний Новгород", "Пермь", "Воронеж",
}

var meetingDescriptions = []string{
	"встреча с командой", "презентация проекта", "звонок с клиентом",
	"планерка", "обед с партнерами", "собеседование",
	"совещание", "тренинг", "вебинар", "конференция",
	"встреча с инвестором", "демо продукта", "ревью кода",
	"стендап", "ретроспектива", "планирование спринта",
}

var musicQueries = []string{
	"Виктор Цой", "Кино - Группа крови", "Земфира",
	"ДДТ", "Сплин", "Би-2", "Мумий Тролль",
	"Nautilus Pompilius", "Агата Кристи", "Алиса",
	"Аквариум", "Ария", "Король и Шут",
	"Звери", "Сплин - Выхода нет", "Земфира - Искала",
}

var noteContents = []string{
	"купить молоко", "позвонить маме", "оплатить счета",
	"забрать посылку", "записаться к врачу", "сделать презентацию",
	"подготовить отчет", "купить подарок", "забронировать отель",
	"проверить почту", "обновить резюме", "написать статью",
}
