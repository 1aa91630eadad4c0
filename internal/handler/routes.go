package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the lesson dialogs and student schedule pages.
func RegisterRoutes(r gin.IRouter, lessons *LessonHandler, students *StudentHandler) {
	teacher := r.Group("/teacher/lessons")
	teacher.GET("/new", lessons.NewDialog)
	teacher.POST("/edit", lessons.EditDialog)
	teacher.GET("/:id/delete", lessons.DeletePrompt)
	teacher.DELETE("/:id", lessons.Delete)

	dialogs := r.Group("/dialogs")
	dialogs.GET("/current", lessons.CurrentDialog)
	dialogs.POST("/submit", lessons.Submit)
	dialogs.POST("/cancel", lessons.Cancel)

	student := r.Group("/student/:id")
	student.GET("", students.Show)
	student.GET("/lessons", students.Lessons)
	student.GET("/lessons/nextMonth", students.NextMonth)
	student.GET("/lessons/previousMonth", students.PreviousMonth)
	student.GET("/lessons/export", students.Export)
}
