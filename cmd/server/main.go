package main

import "magicauth/internal/app"

// @title           Magic Auth Backend
// @version         1.0
// @description     Верификация номера телефона через magic auth (Glide)
// @BasePath        /
func main() {
	app.Run()
}
