package i18n

// Message keys.
const (
	KeyLessonDeletePrompt  = "lesson.delete.prompt"
	KeyLessonDeleteError   = "lesson.delete.error"
	KeyLessonNew           = "lesson.new"
	KeyLessonNewError      = "lesson.new.error"
	KeyLessonEdit          = "lesson.edit"
	KeyLessonEditError     = "lesson.edit.error"
	KeyLessonTimeOrder     = "lesson.error.timeorder"
	KeyLessonInvalidField  = "lesson.error.field"
	KeyGeneralCreate       = "general.create"
	KeyGeneralUpdate       = "general.update"
	KeyGeneralCancel       = "general.cancel"
	KeyGeneralDelete       = "general.delete"
	KeyGeneralAjaxError    = "general.error.ajax"
	KeyStudentLessonsError = "student.details.lessons.error"
	KeyStudentHours        = "student.details.lessons.hours"
	KeyStudentPrevious     = "student.details.lessons.previous"
	KeyStudentNext         = "student.details.lessons.next"
	KeyExportTitle         = "student.export.title"
	KeyExportSchedule      = "student.export.schedule"
	KeyExportLocation      = "student.export.location"
	KeyExportLink          = "student.export.link"
)

var catalogue = map[string]map[string]string{
	"en": {
		KeyLessonDeletePrompt:  "Do you really want to delete this lesson?",
		KeyLessonDeleteError:   "The lesson could not be deleted.",
		KeyLessonNew:           "New lesson",
		KeyLessonNewError:      "The lesson could not be created.",
		KeyLessonEdit:          "Edit lesson",
		KeyLessonEditError:     "The lesson could not be updated.",
		KeyLessonTimeOrder:     "The end time must be after the start time.",
		KeyLessonInvalidField:  "Invalid value for {0}.",
		KeyGeneralCreate:       "Create",
		KeyGeneralUpdate:       "Update",
		KeyGeneralCancel:       "Cancel",
		KeyGeneralDelete:       "Delete",
		KeyGeneralAjaxError:    "{0}\n[{1}] {2}",
		KeyStudentLessonsError: "The lessons could not be loaded.",
		KeyStudentHours:        "Hours this month",
		KeyStudentPrevious:     "Previous month",
		KeyStudentNext:         "Next month",
		KeyExportTitle:         "Lessons - {0}",
		KeyExportSchedule:      "Schedule",
		KeyExportLocation:      "Location",
		KeyExportLink:          "Link",
	},
	"fr": {
		KeyLessonDeletePrompt:  "Voulez-vous vraiment supprimer ce cours ?",
		KeyLessonDeleteError:   "Le cours n'a pas pu être supprimé.",
		KeyLessonNew:           "Nouveau cours",
		KeyLessonNewError:      "Le cours n'a pas pu être créé.",
		KeyLessonEdit:          "Modifier le cours",
		KeyLessonEditError:     "Le cours n'a pas pu être modifié.",
		KeyLessonTimeOrder:     "L'heure de fin doit être après l'heure de début.",
		KeyLessonInvalidField:  "Valeur incorrecte pour {0}.",
		KeyGeneralCreate:       "Créer",
		KeyGeneralUpdate:       "Modifier",
		KeyGeneralCancel:       "Annuler",
		KeyGeneralDelete:       "Supprimer",
		KeyGeneralAjaxError:    "{0}\n[{1}] {2}",
		KeyStudentLessonsError: "Les cours n'ont pas pu être chargés.",
		KeyStudentHours:        "Heures ce mois-ci",
		KeyStudentPrevious:     "Mois précédent",
		KeyStudentNext:         "Mois suivant",
		KeyExportTitle:         "Cours - {0}",
		KeyExportSchedule:      "Horaire",
		KeyExportLocation:      "Lieu",
		KeyExportLink:          "Lien",
	},
}
