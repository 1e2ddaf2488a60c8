// Package test_ct_error runs the cross-track error test against a live ROS
// master: the pure pursuit controller and Gazebo must already be running.
package test_ct_error
